package library_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

var _ = Describe("Library Documents", func() {
	forest := []types.TreeNode{
		&types.CommandGroup{ID: "g1", Type: types.NodeTypeGroup, Label: "Docker", Children: []types.TreeNode{
			&types.CommandItem{ID: "c1", Type: types.NodeTypeCommand, Label: "up", Command: "docker-compose up -d", Description: "start stack"},
		}},
		&types.CommandItem{ID: "c2", Type: types.NodeTypeCommand, Label: "ls", Command: "ls -la"},
	}

	Describe("format names", func() {
		It("resolves aliases and defaults to JSON", func() {
			Expect(library.ParseFormat("")).To(Equal(library.FormatJSON))
			Expect(library.ParseFormat("JSON")).To(Equal(library.FormatJSON))
			Expect(library.ParseFormat("yml")).To(Equal(library.FormatYAML))

			_, err := library.ParseFormat("toml")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("JSON round trip", func() {
		It("preserves structure and order", func() {
			doc, err := library.EncodeDocument(forest, library.FormatJSON)
			Expect(err).NotTo(HaveOccurred())

			decoded, err := library.DecodeDocument(doc, library.FormatJSON)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(HaveLen(2))

			group := decoded[0].(*types.CommandGroup)
			Expect(group.ID).To(Equal("g1"))
			Expect(group.Children).To(HaveLen(1))
			Expect(group.Children[0].NodeID()).To(Equal("c1"))
			Expect(decoded[1].NodeID()).To(Equal("c2"))
		})
	})

	Describe("YAML round trip", func() {
		It("preserves structure through the YAML encoding", func() {
			doc, err := library.EncodeDocument(forest, library.FormatYAML)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(doc)).To(ContainSubstring("commands:"))

			decoded, err := library.DecodeDocument(doc, library.FormatYAML)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(HaveLen(2))

			group := decoded[0].(*types.CommandGroup)
			Expect(group.Label).To(Equal("Docker"))
			item := group.Children[0].(*types.CommandItem)
			Expect(item.Command).To(Equal("docker-compose up -d"))
		})

		It("decodes hand-written YAML", func() {
			doc := []byte("commands:\n  - id: a1\n    type: command\n    label: hello\n    command: echo hello\n")
			decoded, err := library.DecodeDocument(doc, library.FormatYAML)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(HaveLen(1))
			Expect(decoded[0].NodeLabel()).To(Equal("hello"))
		})
	})

	Describe("diff preview", func() {
		It("shows added and removed content", func() {
			incoming := []types.TreeNode{
				&types.CommandItem{ID: "c9", Type: types.NodeTypeCommand, Label: "new", Command: "echo new"},
			}

			preview, err := library.DiffPreview(forest, incoming)
			Expect(err).NotTo(HaveOccurred())
			Expect(preview).To(ContainSubstring("echo new"))
			Expect(preview).To(ContainSubstring("docker-compose up -d"))
		})

		It("is empty-ish for identical forests", func() {
			preview, err := library.DiffPreview(forest, forest)
			Expect(err).NotTo(HaveOccurred())
			Expect(preview).To(ContainSubstring(`"commands"`))
		})
	})
})
