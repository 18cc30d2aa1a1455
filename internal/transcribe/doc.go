// Package transcribe abstracts the speech-recognition engine boundary.
//
// An Engine takes a mono 16 kHz WAV file plus a language hint and returns
// time-aligned segments with per-segment confidence scores together with the
// engine's raw JSON result for archival. Two engines exist: the local
// Whisper CLI executed through uvx, and any OpenAI-compatible transcription
// endpoint. Confidence is Whisper's avg_logprob in both cases: an opaque,
// typically negative ranking signal, not a probability.
package transcribe
