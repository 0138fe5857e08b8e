package trace_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VR-2024/gpu-cache-simulator/trace"
)

func writeTrace(dir, contents string) string {
	path := filepath.Join(dir, "trace.txt")
	Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Load", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "trace-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("parses reads and writes, ignoring comments and blank lines", func() {
		path := writeTrace(tempDir, "# a comment\n\nR 1000 4 0 0\nW 2000 4 1 0\n")

		accesses, err := trace.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(accesses).To(HaveLen(2))

		Expect(accesses[0].Address).To(Equal(uint64(0x1000)))
		Expect(accesses[0].Type).To(Equal(trace.Read))
		Expect(accesses[1].Address).To(Equal(uint64(0x2000)))
		Expect(accesses[1].Type).To(Equal(trace.Write))
		Expect(accesses[1].ThreadID).To(Equal(uint32(1)))
	})

	It("skips malformed lines without aborting", func() {
		path := writeTrace(tempDir, "R 1000 4 0 0\nnot a valid line\nW 2000 4 0 0\n")

		accesses, err := trace.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(accesses).To(HaveLen(2))
	})

	It("fails when the file cannot be opened", func() {
		_, err := trace.Load(filepath.Join(tempDir, "does-not-exist.txt"))
		Expect(err).To(HaveOccurred())
	})

	It("fails when the file has no data lines", func() {
		path := writeTrace(tempDir, "# only comments\n\n")
		_, err := trace.Load(path)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Summarize", func() {
	It("reports read/write counts and address range", func() {
		accesses := []trace.Access{
			{Address: 0x10, Type: trace.Read},
			{Address: 0x20, Type: trace.Write},
			{Address: 0x05, Type: trace.Read},
		}
		s := trace.Summarize(accesses)
		Expect(s.Total).To(Equal(3))
		Expect(s.Reads).To(Equal(2))
		Expect(s.Writes).To(Equal(1))
		Expect(s.MinAddr).To(Equal(uint64(0x05)))
		Expect(s.MaxAddr).To(Equal(uint64(0x20)))
	})

	It("returns the zero value for an empty trace", func() {
		Expect(trace.Summarize(nil)).To(Equal(trace.Summary{}))
	})
})
