package llm

import "fmt"

// TransportError is a non-2xx HTTP reply from the completion endpoint. It is
// never retried here; the caller decides whether to restart a whole run.
type TransportError struct {
	Status      int
	BodyExcerpt string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.BodyExcerpt)
}

// EmptyResponseError is a 2xx reply with no usable text. Distinguished from
// TransportError because it usually means the request was too large or the
// model is unavailable, which a caller may want to surface differently.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("api returned empty response body (status 200); the request may be too large or the model unavailable (model: %s)", e.Model)
}

// UpstreamError is a 2xx reply whose body carries an explicit error envelope.
type UpstreamError struct {
	Payload string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("api error in response: %s", e.Payload)
}

// UnknownEnvelopeError is a 2xx JSON reply matching none of the known shapes.
type UnknownEnvelopeError struct {
	BodyExcerpt string
}

func (e *UnknownEnvelopeError) Error() string {
	return fmt.Sprintf("unexpected api response format: %s", e.BodyExcerpt)
}
