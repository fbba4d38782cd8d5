package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ssargent/skald/pkg/hexcodec"
	"github.com/ssargent/skald/pkg/runlength"
	"github.com/ssargent/skald/pkg/urlcodec"
)

// Server holds the API server state
type Server struct {
	config  ServerConfig
	metrics *Metrics
	started time.Time
}

// NewServer creates a new API server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		config:  config,
		metrics: metrics,
		started: time.Now(),
	}
}

// codecs describes what the service exposes; served by handleCodecs.
var codecs = []CodecInfo{
	{
		Name:        "hex",
		Operations:  []string{"encode", "decode", "dump"},
		Description: "Lowercase hexadecimal; decode rejects malformed input, dump is display-only",
	},
	{
		Name:        "url",
		Operations:  []string{"encode", "decode"},
		Description: "Percent-encoding; decode is lenient and never rejects input",
	},
	{
		Name:        "zero",
		Operations:  []string{"encode", "decode"},
		Description: "Run-length escape for 0x00 runs",
	},
	{
		Name:        "zero-one",
		Operations:  []string{"encode", "decode"},
		Description: "Run-length escape for 0x00 and 0xFF runs",
	},
}

// readBody reads the request body, bounded by the configured limit. On
// failure it writes the error response and reports false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	limit := s.config.MaxRequestBytes
	if limit <= 0 {
		limit = DefaultMaxRequestBytes
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// recordTranscode reports one transcode outcome to the metrics, when present
func (s *Server) recordTranscode(codec, op string, success bool, bytesIn, bytesOut int) {
	if s.metrics != nil {
		s.metrics.RecordTranscode(codec, op, success, bytesIn, bytesOut)
	}
}

// handleHealth reports service liveness and uptime
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	sendSuccess(w, map[string]string{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleCodecs lists the codecs and operations this service exposes
func (s *Server) handleCodecs(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, codecs)
}

// handleHexEncode returns the lowercase hex encoding of the request body
func (s *Server) handleHexEncode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	encoded := hexcodec.Encode(body)
	s.recordTranscode("hex", "encode", true, len(body), len(encoded))
	sendText(w, encoded)
}

// handleHexDecode decodes a hex request body to raw bytes. The body is
// taken verbatim; stray whitespace is a decode error, not noise.
func (s *Server) handleHexDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	decoded, err := hexcodec.Decode(string(body))
	if err != nil {
		s.recordTranscode("hex", "decode", false, len(body), 0)
		sendError(w, fmt.Sprintf("Invalid hex input: %v", err), http.StatusBadRequest)
		return
	}

	s.recordTranscode("hex", "decode", true, len(body), len(decoded))
	sendBytes(w, decoded)
}

// handleHexDump returns the uppercase low-nibble-first display rendering
func (s *Server) handleHexDump(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	dump := hexcodec.Dump(body)
	s.recordTranscode("hex", "dump", true, len(body), len(dump))
	sendText(w, dump)
}

// handleURLEncode percent-encodes the request body
func (s *Server) handleURLEncode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	encoded := urlcodec.Encode(body)
	s.recordTranscode("url", "encode", true, len(body), len(encoded))
	sendText(w, encoded)
}

// handleURLDecode reverses percent-encoding. The decode itself never
// rejects input; only a malformed plus parameter is an error.
func (s *Server) handleURLDecode(w http.ResponseWriter, r *http.Request) {
	plus := false
	if raw := r.URL.Query().Get("plus"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			sendError(w, "Invalid plus parameter, want true or false", http.StatusBadRequest)
			return
		}
		plus = parsed
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	decoded := urlcodec.Decode(string(body), plus)
	s.recordTranscode("url", "decode", true, len(body), len(decoded))
	sendBytes(w, decoded)
}

// handleZeroEncode compresses zero runs in the request body
func (s *Server) handleZeroEncode(w http.ResponseWriter, r *http.Request) {
	s.runLengthEncode(w, r, "zero", runlength.ZeroEncode)
}

// handleZeroDecode expands zero runs, rejecting structurally invalid input
func (s *Server) handleZeroDecode(w http.ResponseWriter, r *http.Request) {
	s.runLengthDecode(w, r, "zero", runlength.IsZero, runlength.ZeroDecode)
}

// handleZeroOneEncode compresses 0x00 and 0xFF runs in the request body
func (s *Server) handleZeroOneEncode(w http.ResponseWriter, r *http.Request) {
	s.runLengthEncode(w, r, "zero-one", runlength.ZeroOneEncode)
}

// handleZeroOneDecode expands 0x00 and 0xFF runs, rejecting structurally
// invalid input
func (s *Server) handleZeroOneDecode(w http.ResponseWriter, r *http.Request) {
	s.runLengthDecode(w, r, "zero-one", runlength.IsZeroOne, runlength.ZeroOneDecode)
}

func (s *Server) runLengthEncode(w http.ResponseWriter, r *http.Request, codec string, encode func([]byte) []byte) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	encoded := encode(body)
	s.recordTranscode(codec, "encode", true, len(body), len(encoded))
	sendBytes(w, encoded)
}

func (s *Server) runLengthDecode(w http.ResponseWriter, r *http.Request, codec string,
	isSentinel runlength.Sentinel, decode func([]byte) []byte) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	// Screen untrusted bytes before the decoder, which assumes valid input
	if !runlength.Valid(body, isSentinel) {
		s.recordTranscode(codec, "decode", false, len(body), 0)
		sendError(w, "Run-length input ends with an unterminated escape", http.StatusBadRequest)
		return
	}

	decoded := decode(body)
	s.recordTranscode(codec, "decode", true, len(body), len(decoded))
	sendBytes(w, decoded)
}
