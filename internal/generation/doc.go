// Package generation turns a trend request into a model prompt and turns the
// model's free-text answer back into a validated domain.Result.
//
// The two halves share a domain.SchemaVariant chosen once by the Builder:
// the variant decides both which JSON shape the prompt asks for and which
// shape the Extractor accepts. The Model interface is the boundary to the
// external generative service; see internal/platform/gemini for the
// production implementation.
package generation
