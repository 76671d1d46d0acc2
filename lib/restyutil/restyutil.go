package restyutil

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DumpOutput receives one rendered request/response exchange per id.
type DumpOutput interface {
	Write(id string, contents string)
}

// FilesystemOutput writes exchanges as files into a directory, wiped on
// creation so a run only ever shows its own traffic.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	os.RemoveAll(dir)
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		panic(err)
	}
	return FilesystemOutput{directory: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump file", "id", id, "err", err)
	}
}

// InstrumentClient dumps every exchange the client performs to the
// output. A nil output makes this a no-op. Dumps carry credentials and
// session cookies, this is a debugging aid, never an always-on default.
func InstrumentClient(client *resty.Client, output DumpOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		output.Write(id, formatExchange(res))
		return nil
	})
}

func formatHeaders(headers http.Header) string {
	var out strings.Builder
	for key, values := range headers {
		for _, value := range values {
			fmt.Fprintf(&out, "%s: %s\n", key, value)
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *http.Request) string {
	if req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(contents)
}

func formatExchange(res *resty.Response) string {
	responseUrl := res.Request.URL
	if redirected, err := res.RawResponse.Location(); err == nil {
		responseUrl = redirected.String()
	}

	var out strings.Builder
	fmt.Fprintf(&out, "---- REQUEST ----\n\n%s %s\n\n", res.Request.Method, res.Request.URL)
	out.WriteString(formatHeaders(res.Request.RawRequest.Header))
	out.WriteString("\n\n")
	out.WriteString(formatRequestBody(res.Request.RawRequest))
	fmt.Fprintf(&out, "\n\n---- RESPONSE ----\n\n%d %s\n\n", res.StatusCode(), responseUrl)
	out.WriteString(formatHeaders(res.Header()))
	out.WriteString("\n\n")
	out.WriteString(res.String())
	return out.String()
}
