package designer

import (
	"context"
	"iter"

	"github.com/sweetpotato0/uidraft/message"
	"github.com/sweetpotato0/uidraft/tool"
)

// StreamLLMClient defines the interface for LLM providers that support streaming
type StreamLLMClient interface {
	// GenerateStream streams a response. Each chunk carries a text delta or
	// fully assembled tool calls and has Completed=false; the last message
	// has Completed=true and holds the accumulated result.
	GenerateStream(ctx context.Context, req *GenerateRequest) iter.Seq2[*GenerateResponse, error]
}

// GenerateRequest bundles inputs for a streaming LLM invocation.
type GenerateRequest struct {
	Messages []*message.Message
	// Tools offered to the model; nil means plain text generation
	Tools []*tool.Tool
}

// GenerateResponse captures one streamed LLM message.
type GenerateResponse struct {
	Message *message.Message
}
