package http

import (
	"encoding/json"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:  method,
		URL:     requestURL,
		Headers: make(map[string]string),
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body string) *Request {
	r.Body = []byte(body)
	return r
}

// SetJSONBody serializes v as the request body and sets the JSON content type.
// Members and elements are separated by ": " and ", ".
func (r *Request) SetJSONBody(v any) (*Request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return r, err
	}
	r.Body = spaceSeparators(data)
	r.Headers["Content-Type"] = "application/json"
	return r, nil
}

// SetTimeout bounds this request on top of any client-wide timeout.
func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

func (r *Request) BodyString() string {
	return string(r.Body)
}

// spaceSeparators adds a space after every ':' and ',' outside of strings in
// compact JSON.
func spaceSeparators(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8)
	inString, escaped := false, false
	for _, b := range data {
		out = append(out, b)
		switch {
		case escaped:
			escaped = false
		case inString:
			if b == '\\' {
				escaped = true
			} else if b == '"' {
				inString = false
			}
		case b == '"':
			inString = true
		case b == ':' || b == ',':
			out = append(out, ' ')
		}
	}
	return out
}
