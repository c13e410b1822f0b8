package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-resty/resty/v2"
)

// the offer pages are a few hundred kilobytes of markup, only the head is kept
const maxDumpedBody = 64 * 1024

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		for _, value := range headers[key] {
			fmt.Fprintf(out, "%s: %s\n", key, value)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "<NO BODY>"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<BODY UNAVAILABLE: %s>", err)
	}
	defer body.Close()
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<BODY UNAVAILABLE: %s>", err)
	}
	return string(contents)
}

func truncate(body string) string {
	if len(body) <= maxDumpedBody {
		return body
	}
	return body[:maxDumpedBody] + "\n<TRUNCATED>"
}

// formatHttpMessage renders one exchange as plain text, request first.
// Headers are sorted so two dumps of the same call diff cleanly.
func formatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	if raw := res.Request.RawRequest; raw != nil {
		writeHeaders(&out, raw.Header)
		out.WriteString("\n")
		out.WriteString(requestBody(raw))
	} else {
		out.WriteString("<NO BODY>")
	}

	location := res.Request.URL
	if res.RawResponse != nil {
		redirected, err := res.RawResponse.Location()
		if err == nil {
			location = redirected.String()
		}
	}

	out.WriteString("\n\n---- RESPONSE ----\n\n")
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), location)
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(truncate(res.String()))

	return out.String()
}
