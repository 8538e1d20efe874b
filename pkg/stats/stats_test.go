package stats_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/stats"
	"github.com/zurustar/ipp-parse/pkg/status"
)

var _ = Describe("Collector", func() {
	var c *stats.Collector

	BeforeEach(func() {
		c = &stats.Collector{}
	})

	It("starts at zero", func() {
		Expect(c.Counters()).To(Equal(stats.Counters{}))
	})

	It("counts comments", func() {
		c.Comment()
		c.Comment()
		Expect(c.Counters().Comments).To(Equal(2))
		Expect(c.Counters().LOC).To(Equal(0))
	})

	It("counts labels and lines of code", func() {
		c.Instruction(opcode.LabelDef)
		c.Instruction(opcode.Move)
		Expect(c.Counters()).To(Equal(stats.Counters{LOC: 2, Labels: 1}))
	})

	It("counts every jump opcode", func() {
		for _, name := range []opcode.Name{
			opcode.Call, opcode.Jump, opcode.JumpIfEq, opcode.JumpIfNeq,
			opcode.Return, opcode.JumpIfEqS, opcode.JumpIfNeqS,
		} {
			c.Instruction(name)
		}
		c.Instruction(opcode.Write)
		Expect(c.Counters().Jumps).To(Equal(7))
		Expect(c.Counters().LOC).To(Equal(8))
	})
})

var _ = Describe("ParseCounter", func() {
	DescribeTable("known names",
		func(name string, want stats.Counter) {
			got, ok := stats.ParseCounter(name)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
			Expect(got.String()).To(Equal(name))
		},
		Entry("loc", "loc", stats.LOC),
		Entry("comments", "comments", stats.Comments),
		Entry("labels", "labels", stats.Labels),
		Entry("jumps", "jumps", stats.Jumps),
	)

	It("rejects unknown names", func() {
		_, ok := stats.ParseCounter("vars")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Format", func() {
	counters := stats.Counters{Comments: 3, LOC: 5, Jumps: 2, Labels: 1}

	It("writes counters in request order", func() {
		var buf bytes.Buffer
		Expect(stats.Format(&buf, counters, []stats.Counter{stats.Jumps, stats.LOC, stats.Comments})).To(Succeed())
		Expect(buf.String()).To(Equal("2\n5\n3\n"))
	})

	It("repeats a counter requested twice", func() {
		var buf bytes.Buffer
		Expect(stats.Format(&buf, counters, []stats.Counter{stats.Labels, stats.Labels})).To(Succeed())
		Expect(buf.String()).To(Equal("1\n1\n"))
	})

	It("writes nothing for an empty selection", func() {
		var buf bytes.Buffer
		Expect(stats.Format(&buf, counters, nil)).To(Succeed())
		Expect(buf.Len()).To(BeZero())
	})
})

var _ = Describe("Write", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("writes the statistics file", func() {
		path := filepath.Join(dir, "stats.txt")
		err := stats.Write(path, stats.Counters{LOC: 1, Labels: 1, Comments: 1}, []stats.Counter{stats.LOC, stats.Labels})
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("1\n1\n"))
	})

	It("reports an unwritable path as an output error", func() {
		path := filepath.Join(dir, "missing", "stats.txt")
		err := stats.Write(path, stats.Counters{}, []stats.Counter{stats.LOC})
		Expect(err).To(HaveOccurred())
		Expect(status.KindOf(err)).To(Equal(status.OutputError))
		Expect(status.Code(err)).To(Equal(12))
	})
})
