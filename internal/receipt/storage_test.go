package receipt

import (
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "scans"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create the base directory", func() {
		Expect(filepath.Join(tmpDir, "scans")).To(BeADirectory())
	})

	Describe("Save and Get", func() {
		It("should round trip file contents", func() {
			name, err := storage.Save("id-1_receipt.jpg", []byte("image bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("id-1_receipt.jpg"))
			Expect(filepath.Join(tmpDir, "scans", name)).To(BeAnExistingFile())

			data, err := storage.Get(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("image bytes"))
		})

		It("should keep files inside the base directory", func() {
			name, err := storage.Save("../../escape.jpg", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("escape.jpg"))
			Expect(filepath.Join(tmpDir, "escape.jpg")).NotTo(BeAnExistingFile())
		})

		When("file does not exist", func() {
			It("returns the error", func() {
				_, err := storage.Get("nonexistent.jpg")
				Expect(err).To(MatchError(ContainSubstring("reading file")))
			})
		})
	})

	Describe("Delete", func() {
		When("file exists", func() {
			It("should remove it", func() {
				_, err := storage.Save("gone.png", []byte("x"))
				Expect(err).NotTo(HaveOccurred())

				Expect(storage.Delete("gone.png")).To(Succeed())
				_, err = storage.Get("gone.png")
				Expect(err).To(HaveOccurred())
			})
		})

		When("file does not exist", func() {
			It("returns the error", func() {
				Expect(storage.Delete("nonexistent.jpg")).To(MatchError(ContainSubstring("deleting file")))
			})
		})
	})
})

var _ = Describe("sanitizeFilename", func() {
	DescribeTable("cleaning uploaded names",
		func(input, expected string) {
			Expect(sanitizeFilename(input)).To(Equal(expected))
		},
		Entry("plain name", "receipt.jpg", "receipt.jpg"),
		Entry("special characters", "Target (1) #copy!.PNG", "Target 1 copy.png"),
		Entry("collapsed whitespace", "my    receipt .pdf", "my receipt.pdf"),
		Entry("directories dropped", "/tmp/uploads/scan.heic", "scan.heic"),
		Entry("nothing left", "$$$.jpg", "receipt.jpg"),
	)

	It("should truncate long names", func() {
		name := sanitizeFilename(strings.Repeat("a", 120) + ".jpg")
		Expect(name).To(Equal(strings.Repeat("a", 50) + ".jpg"))
	})

	It("should prefix the receipt ID for archived scans", func() {
		Expect(archiveName("abc", "IMG 0001.HEIC")).To(Equal("abc_IMG 0001.heic"))
	})
})
