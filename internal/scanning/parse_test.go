package scanning

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CleanTranscript", func() {
	DescribeTable("model replies",
		func(reply, expected string) {
			Expect(CleanTranscript(reply)).To(Equal(expected))
		},
		Entry("plain text", "Désignation\nIDAO123 Reactif", "Désignation\nIDAO123 Reactif"),
		Entry("surrounding whitespace", "\n  FACTURE N° 12  \n\n", "FACTURE N° 12"),
		Entry("fenced block", "```\nDate : 10/10/23\n```", "Date : 10/10/23"),
		Entry("fenced block with a language tag", "```text\nCNTS N'DJAMENA\n```", "CNTS N'DJAMENA"),
		Entry("windows line endings", "a\r\nb\r\n", "a\nb"),
		Entry("no-text sentinel", "NO_TEXT", ""),
		Entry("no-text sentinel in lower case", " no_text\n", ""),
		Entry("empty fence", "```", ""),
		Entry("empty reply", "", ""),
	)
})
