package travelpod

import (
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/param"
)

// MessageList holds an ordered collection of chat messages to preserve the history.
type MessageList struct {
	Messages []openai.ChatCompletionMessageParamUnion
}

func NewMessageList() *MessageList {
	return &MessageList{
		Messages: []openai.ChatCompletionMessageParamUnion{},
	}
}

func (ml *MessageList) Len() int {
	return len(ml.Messages)
}

// Add appends one or more new messages to the MessageList in a FIFO order.
func (ml *MessageList) Add(msgs ...openai.ChatCompletionMessageParamUnion) {
	ml.Messages = append(ml.Messages, msgs...)
}

// AddFirst prepends a system message. System is used rather than developer
// messages because not every OpenAI compatible provider accepts the latter.
func (ml *MessageList) AddFirst(prompt string) {
	ml.Messages = append([]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(prompt)}, ml.Messages...)
}

func (ml *MessageList) All() []openai.ChatCompletionMessageParamUnion {
	return ml.Messages
}

// LastUserMessageString returns the text of the most recent user message.
func (ml *MessageList) LastUserMessageString() string {
	for i := len(ml.Messages) - 1; i >= 0; i-- {
		msg := ml.Messages[i]
		if msg.OfUser != nil && !param.IsOmitted(msg.OfUser.Content.OfString) {
			return msg.OfUser.Content.OfString.Value
		}
	}
	return ""
}
