// Package gemini provides an implementation of the generation.Model interface
// backed by Google's Gemini API with Google Search grounding.
//
// This package is an infrastructure adapter: it translates a rendered
// generation.Prompt into a GenerateContent call and the response back into
// a generation.RawResponse. It does not parse the model's JSON; that is the
// extractor's job. Grounding citations are read from the candidate's
// grounding metadata and passed along as sources.
//
// Calls are made exactly once. Retrying is left to the user, because every
// call is costly and counts against the caller's quota.
package gemini
