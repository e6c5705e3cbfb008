package sbtable_test

import (
	"bytes"
	"math/rand"
	"sort"

	"github.com/bsm/sbtable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ShortestSeparator", func() {
	It("should truncate to the divergence point", func() {
		Expect(sbtable.ShortestSeparator([]byte("abcd"), []byte("abce"))).To(Equal([]byte("abce")))
		Expect(sbtable.ShortestSeparator([]byte("abcd"), []byte("abef"))).To(Equal([]byte("abe")))
		Expect(sbtable.ShortestSeparator([]byte("abcd"), []byte("b"))).To(Equal([]byte("b")))
		Expect(sbtable.ShortestSeparator([]byte("a"), []byte("ab"))).To(Equal([]byte("ab")))
		Expect(sbtable.ShortestSeparator([]byte("abcd"), []byte("xylophone"))).To(Equal([]byte("x")))
	})

	It("should reject unordered inputs", func() {
		_, err := sbtable.ShortestSeparator([]byte("b"), []byte("a"))
		Expect(err).To(MatchError(`sbtable: "b" is not ordered before "a"`))
		_, err = sbtable.ShortestSeparator([]byte("a"), []byte("a"))
		Expect(err).To(HaveOccurred())
		_, err = sbtable.ShortestSeparator([]byte("ab"), []byte("a"))
		Expect(err).To(HaveOccurred())
	})

	It("should always separate, minimally", func() {
		rnd := rand.New(rand.NewSource(33))
		alpha := []byte("aabbc")

		keys := make([][]byte, 0, 200)
		seen := map[string]struct{}{}
		for len(keys) < 200 {
			key := make([]byte, 1+rnd.Intn(6))
			for i := range key {
				key[i] = alpha[rnd.Intn(len(alpha))]
			}
			if _, ok := seen[string(key)]; ok {
				continue
			}
			seen[string(key)] = struct{}{}
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

		for i := 0; i < len(keys)-1; i++ {
			a, b := keys[i], keys[i+1]
			s, err := sbtable.ShortestSeparator(a, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(s)).To(BeNumerically("<=", len(b)), "sep(%q, %q)", a, b)
			Expect(bytes.Compare(a, s)).To(Equal(-1), "sep(%q, %q) = %q", a, b, s)
			Expect(bytes.Compare(s, b) <= 0).To(BeTrue(), "sep(%q, %q) = %q", a, b, s)
		}
	})
})
