package commands

import (
	"fmt"

	"edbo-scraper/internal/edbocrypt"

	"github.com/spf13/cobra"
)

var (
	decryptNumber   int64
	decryptRecordID int64
)

func init() {
	decryptCmd.Flags().Int64Var(&decryptNumber, "number", 0, "The entry number (`n`) of the application.")
	decryptCmd.Flags().Int64Var(&decryptRecordID, "record-id", 0, "The status id (`prsid`) of the application.")
	decryptCmd.MarkFlagRequired("number")
	decryptCmd.MarkFlagRequired("record-id")
	rootCmd.AddCommand(decryptCmd)
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt --number <n> --record-id <prsid> <ciphertext>",
	Short: "Decrypts one field of an application entry.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plaintext, err := edbocrypt.Decrypt(args[0], decryptNumber, decryptRecordID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), plaintext)
		return nil
	},
}
