// Package speech fetches and plays pronunciation audio. The web provider
// is primary; OpenAI TTS and espeak-ng serve as fallbacks.
package speech
