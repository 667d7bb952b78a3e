package travelpod

type ResponseType string

const (
	ResponseTypeStatus      ResponseType = "status"
	ResponseTypePartialText ResponseType = "partial-text"
	ResponseTypeEnd         ResponseType = "end"
	ResponseTypeError       ResponseType = "error"
)

// Response represents a communication unit from the Agent to the caller.
type Response struct {
	Content string
	Type    ResponseType
}
