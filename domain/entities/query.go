package entities

// SummarizeInstruction is the fixed analysis task sent with every screenshot
const SummarizeInstruction = "Please analyze this webpage screenshot and provide a concise summary " +
	"of the main content and key points. Focus on the technical documentation " +
	"and important information presented."

// QueryUnit pairs one instruction with exactly one image
type QueryUnit struct {
	Instruction string `json:"instruction"`
	ImageBase64 string `json:"image_base64"`
}
