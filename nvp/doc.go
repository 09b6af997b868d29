// Package nvp decodes PayPal name-value-pair (NVP) response bodies.
//
// The legacy merchant endpoints answer with an application/x-www-form-urlencoded
// body. Repeated values are flattened into positional keys of the form
// L_<FIELD><INDEX>, for example:
//
//	ACK=Success&L_TRANSACTIONID0=1&L_TRANSACTIONID1=2&L_AMT0=10.00&L_AMT1=5.00
//
// Decoding happens in three steps:
//
//   - [Decode] produces a [Record], the flat key/value pairs in wire order.
//   - [Record.Collapse] groups array keys into ordered lists under the key
//     without its index (L_TRANSACTIONID), padding skipped indices with null
//     values and rejecting indices that go backwards with an
//     [OrderViolationError].
//   - [Collapsed.Zip] pairs the lists position by position into one [Entry]
//     per record, keyed by the field name without the L_ prefix
//     (TRANSACTIONID, AMT).
//
// The collapsed form is computed once per Record and cached, so a Record may
// be shared between goroutines.
//
// This is not a general query-string parser. Only the L_<FIELD><INDEX>
// array convention used by PayPal is understood.
package nvp
