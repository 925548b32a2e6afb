package llm

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"
	"regexp"

	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
)

// dumpLimit caps how much of a dumped payload reaches the debug log.
const dumpLimit = 4096

var bearerRe = regexp.MustCompile(`(?i)Authorization:\s*Bearer\s+[A-Za-z0-9\-\._~+/=]+`)

// loggingRT dumps model traffic when MODEL_DEBUG=true, with the bearer
// token redacted.
type loggingRT struct {
	base http.RoundTripper
	log  *logger.Logger
}

func newLoggingRT(base http.RoundTripper) *loggingRT {
	return &loggingRT{base: base, log: logger.GetLogger().WithComponent("model-debug")}
}

func (l *loggingRT) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(b))
		req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil }
		if d, err := httputil.DumpRequestOut(req, true); err == nil {
			safe := bearerRe.ReplaceAll(d, []byte("Authorization: Bearer ***REDACTED***"))
			l.log.WithField("direction", "outbound").
				Infof("%s %s\n%s", req.Method, req.URL, truncateDump(safe))
		}
	}

	resp, err := l.base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}

	b, _ := io.ReadAll(resp.Body)
	resp.Body = io.NopCloser(bytes.NewReader(b))
	if d, dumpErr := httputil.DumpResponse(resp, true); dumpErr == nil {
		l.log.WithField("direction", "inbound").
			Infof("%s %s\n%s", req.Method, req.URL, truncateDump(d))
	}
	return resp, nil
}

func truncateDump(d []byte) []byte {
	if len(d) > dumpLimit {
		d = append(d[:dumpLimit:dumpLimit], []byte("\n... (truncated) ...")...)
	}
	return d
}
