// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package finf implements a streaming codec for the Fast Infoset binary XML
// format ([ITU-T X.891] / ISO/IEC 24824-1).
//
// The two entrypoint types are [Reader], which decodes an octet stream into
// a sequence of XML-shaped node events, and [Writer], which accepts the same
// event vocabulary and emits a conforming Fast Infoset stream. Compression
// comes from bit-packed framing and from dynamic vocabulary tables built
// identically on both sides while coding, so that repeated names and values
// are replaced by small indices.
//
// Restricted alphabets (bit-packed strings over a small character set) live
// in the alphabet subpackage and typed binary content encodings (hex,
// base64, integers, IEEE-754 floats, booleans, UUIDs, CDATA) in the
// algorithm subpackage. Both are extensible through process-global
// registries; registration must happen before a codec using them is
// constructed. Pre-shared vocabularies are registered the same way with
// [RegisterExternalVocabulary] and referenced by URI from the document
// header.
//
// The fixml subpackage adapts the codec to the encoding/xml token model for
// callers that want to transcode between textual XML and Fast Infoset.
//
// Readers and writers are single-stream and single-goroutine; they own
// their buffers and perform no I/O beyond the stream handed to them.
//
// [ITU-T X.891]: https://www.itu.int/rec/T-REC-X.891
package finf
