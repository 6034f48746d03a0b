package smoke

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitsmoke/packages/http"
)

// PayloadKind describes how a step encodes its body.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadText
	PayloadJSON
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadText:
		return "text"
	case PayloadJSON:
		return "json"
	default:
		return "none"
	}
}

const (
	ContentTypeText = "text/plain"
	ContentTypeJSON = "application/json"
)

// Step is one exchange in the smoke sequence.
type Step struct {
	Label   string
	Method  string
	Payload PayloadKind
	// Text is the literal body for PayloadText and the "message" value for
	// PayloadJSON.
	Text string
}

// JSONMessage is the body shape sent by JSON steps.
type JSONMessage struct {
	Message string `json:"message"`
}

// DefaultSteps returns the smoke sequence in execution order.
func DefaultSteps() []Step {
	return []Step{
		{Label: "Testing POST with text/plain", Method: "POST", Payload: PayloadText, Text: "This is a plain text POST"},
		{Label: "Testing POST with application/json", Method: "POST", Payload: PayloadJSON, Text: "This is a JSON POST"},
		{Label: "Testing GET", Method: "GET"},
		{Label: "Testing PUT with text/plain", Method: "PUT", Payload: PayloadText, Text: "This is a plain text PUT"},
		{Label: "Testing PUT with application/json", Method: "PUT", Payload: PayloadJSON, Text: "This is a JSON PUT"},
		{Label: "Testing DELETE", Method: "DELETE"},
		{Label: "Testing GET after DELETE", Method: "GET"},
	}
}

// BuildRequest creates the request for this step against url.
func (s Step) BuildRequest(url string) (*http.Request, error) {
	req := http.NewRequest(s.Method, url)

	switch s.Payload {
	case PayloadNone:
	case PayloadText:
		req.SetBody(s.Text).SetHeader("Content-Type", ContentTypeText)
	case PayloadJSON:
		if _, err := req.SetJSONBody(JSONMessage{Message: s.Text}); err != nil {
			return nil, fmt.Errorf("encoding JSON body: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown payload kind %d", s.Payload)
	}

	return req, nil
}
