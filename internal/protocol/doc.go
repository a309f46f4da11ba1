// Package protocol implements the output side of the model worker protocol.
//
// A worker writes either one JSON object line (single-shot mode) or a
// sequence of KIND:PAYLOAD lines (streaming mode):
//
//	STATUS:Booting CGE model
//	PROGRESS:Loading baseline dataset
//	RESULT:{"headline":"CGE simulation complete",...}
//
// RESULT is terminal. Every record goes through a Sink that flushes before
// returning, so a consumer reading the channel incrementally sees each event
// as soon as it is emitted.
package protocol
