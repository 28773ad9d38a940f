// Package providers groups the vendor adapters. Each sub-package implements
// [github.com/germanamz/humanizer/pkg/modeladapter.Completer] for one API:
//   - [github.com/germanamz/humanizer/pkg/providers/gemini]: Google Gemini generateContent
//   - [github.com/germanamz/humanizer/pkg/providers/openai]: OpenAI Chat Completions
package providers
