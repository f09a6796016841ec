// Package curate turns raw catalog records into bounded price-estimation prompts.
//
// A record is assembled into one contents string, gated on character length,
// trimmed, scrubbed, gated again on token length and finally rendered as a
// question, a body and a price label. Records that fail either gate are
// returned with Include unset and no prompt.
package curate
