// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package signature

import "hash/fnv"

const (
	wordCount     = 100
	wordLength    = 16
	wordIndexBits = 7
	wordContentBits = 25
	contentMask   = 1<<wordContentBits - 1
)

// wordOffsets are fixed, precomputed at package init (not random, not
// reconsulted per image): word k starts at a stride-spaced offset into the
// 544-entry vector and wraps around, so every word draws from a different,
// overlapping 16-entry slice.
var wordOffsets = computeWordOffsets()

func computeWordOffsets() [wordCount]int {
	var offsets [wordCount]int
	stride := float64(vectorLength) / float64(wordCount)
	for k := 0; k < wordCount; k++ {
		offsets[k] = int(float64(k) * stride)
	}
	return offsets
}

// deriveWords builds the K=100 coarse words of §4.C step 6. Each word packs
// a 7-bit positional index in the high bits and a 25-bit content digest of
// its 16 signature entries in the low bits, so two words only set-overlap
// when both the position and the content match.
func deriveWords(vector []int8) []int32 {
	words := make([]int32, wordCount)
	for k, offset := range wordOffsets {
		h := fnv.New32a()
		for n := 0; n < wordLength; n++ {
			idx := (offset + n) % len(vector)
			h.Write([]byte{byte(vector[idx])})
		}
		content := int32(h.Sum32() & contentMask)
		words[k] = int32(k)<<wordContentBits | content
	}
	return words
}
