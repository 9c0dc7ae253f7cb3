package openaicompat

import "time"

// Known OpenAI-compatible vendors and their default endpoints.
const (
	VendorOpenAI   = "openai"
	VendorDeepSeek = "deepseek"
	VendorQwen     = "qwen"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 60 * time.Second
)

// vendorBaseURLs maps a vendor name to its chat completions endpoint base.
var vendorBaseURLs = map[string]string{
	VendorOpenAI:   "https://api.openai.com/v1",
	VendorDeepSeek: "https://api.deepseek.com",
	VendorQwen:     "https://dashscope-intl.aliyuncs.com/compatible-mode/v1",
}

// vendorDefaultModels maps a vendor name to its default model.
var vendorDefaultModels = map[string]string{
	VendorOpenAI:   "gpt-4o",
	VendorDeepSeek: "deepseek-chat",
	VendorQwen:     "qwen-plus",
}
