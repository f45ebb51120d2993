// Package audio implements playback engines for the player.
//
// [BeepEngine] streams MP3 audio to the default output device with gopxl/beep.
// [SilentEngine] keeps time without producing sound, for headless runs.
package audio
