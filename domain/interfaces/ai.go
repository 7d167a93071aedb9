package interfaces

import "context"

// VisionQuerier sends an instruction plus an image to a multimodal model
type VisionQuerier interface {
	// Query returns the model's text answer, or an empty string with the error on failure
	Query(ctx context.Context, instruction string, imageBase64 string) (string, error)
}
