// Package separate splits a waveform file into drums, bass, vocals and
// other stems with demucs.
//
// Both engines run demucs once per stem in two-stem mode, so each stem
// is final and exported to the stems folder before the next pass starts.
// They differ only in the demucs model and quality parameters:
//
//	basic:   htdemucs
//	complex: htdemucs_ft --shifts 2 --overlap 0.5
//
// Progress goes through a progress.Sink: the overall counter advances
// once per exported stem and the current counter follows the demucs
// percentage. Every output line is traced and returned on failure.
package separate
