package types

// Env carries the host ledger position an operation executes at.
type Env struct {
	Height uint64
	Time   uint64 // seconds since epoch
}

// Attribute is a key/value pair describing the effect of an operation.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Response struct {
	Attributes []Attribute `json:"attributes"`
}

func NewResponse() *Response {
	return &Response{Attributes: make([]Attribute, 0, 6)}
}

func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the value of the first attribute named key.
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
