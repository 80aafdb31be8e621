package templates

import "github.com/gsarma/mailrender/internal/email"

// AllowedBlockTypes lists the block types the multi-block template renders.
var AllowedBlockTypes = []string{email.BlockContent, email.BlockText, email.BlockImage, email.BlockDivider}

func multiBlockInfo(opts Options) Info {
	return Info{
		Name:        email.TemplateMultiBlock,
		Description: "Dynamic template supporting multiple content blocks with flexible layout",
		Config: map[string]any{
			"maxBlocks":         opts.MaxBlocks,
			"minBlocks":         opts.MinBlocks,
			"allowedBlockTypes": append([]string(nil), AllowedBlockTypes...),
		},
		ExampleRequest: map[string]any{
			"template": email.TemplateMultiBlock,
			"subject":  "Welcome to " + opts.BrandName,
			"preview":  "Get started today",
			"blocks": []any{
				map[string]any{
					"type":        email.BlockContent,
					"title":       "Welcome!",
					"text":        "We are glad to have you here",
					"imageUrl":    "https://example.com/image.png",
					"imageAlt":    "Welcome",
					"imageWidth":  100,
					"imageHeight": 100,
					"buttonText":  "Get Started",
					"buttonUrl":   "https://anora.app",
				},
			},
		},
	}
}

func verificationInfo(opts Options) Info {
	code := make([]byte, opts.CodeLength)
	for i := range code {
		code[i] = '1' + byte(i%9)
	}
	return Info{
		Name:        email.TemplateVerificationCode,
		Description: "Clean template for displaying verification codes and OTPs",
		Config: map[string]any{
			"codeLength":    opts.CodeLength,
			"expiryMinutes": opts.ExpiryMinutes,
		},
		ExampleRequest: map[string]any{
			"template":      email.TemplateVerificationCode,
			"subject":       "Your verification code",
			"preview":       "Use this code to verify",
			"code":          string(code),
			"expiryMinutes": opts.ExpiryMinutes,
			"recipientName": "John Doe",
		},
	}
}
