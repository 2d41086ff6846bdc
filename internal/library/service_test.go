package library_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cmdshelf/cmdshelf/internal/event"
	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/internal/storage"
	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// recordingTerminal captures Send calls for assertions.
type recordingTerminal struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingTerminal) Name() string { return "test" }

func (r *recordingTerminal) Send(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func (r *recordingTerminal) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

// recordingClipboard captures Write calls.
type recordingClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingClipboard) Write(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

var _ = Describe("Command Service", func() {
	var (
		ctx       context.Context
		svc       *library.Service
		store     *storage.Storage
		term      *recordingTerminal
		clip      *recordingClipboard
		baseDir  string
		unsubAll func()
		eventLog chan event.Event
	)

	// waitForUpdate blocks until a library.updated event with the given
	// reason arrives.
	waitForUpdate := func(reason string) event.LibraryUpdatedData {
		deadline := time.After(2 * time.Second)
		for {
			select {
			case e := <-eventLog:
				if e.Type != event.LibraryUpdated {
					continue
				}
				data := e.Data.(event.LibraryUpdatedData)
				if data.Reason == reason {
					return data
				}
			case <-deadline:
				Fail("timed out waiting for library.updated reason=" + reason)
			}
		}
	}

	readStored := func() types.CommandData {
		var data types.CommandData
		Expect(store.Get(ctx, []string{"library"}, &data)).To(Succeed())
		return data
	}

	BeforeEach(func() {
		ctx = context.Background()
		event.Reset()

		baseDir = GinkgoT().TempDir()
		store = storage.New(baseDir)
		term = &recordingTerminal{}
		clip = &recordingClipboard{}
		svc = library.NewService(store, library.WithTerminal(term), library.WithClipboard(clip))
		Expect(svc.Load(ctx)).To(Succeed())

		eventLog = make(chan event.Event, 64)
		unsubAll = event.SubscribeAll(func(e event.Event) {
			select {
			case eventLog <- e:
			default:
			}
		})
	})

	AfterEach(func() {
		unsubAll()
		event.Reset()
	})

	Describe("adding nodes", func() {
		It("appends a command to the root and persists it", func() {
			item, err := svc.AddCommand(ctx, "up", "docker-compose up -d", "start stack", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(item.ID).NotTo(BeEmpty())
			Expect(item.Type).To(Equal(types.NodeTypeCommand))

			data := readStored()
			Expect(data.Commands).To(HaveLen(1))
			Expect(data.Commands[0].NodeID()).To(Equal(item.ID))

			update := waitForUpdate("add")
			Expect(update.NodeID).To(Equal(item.ID))
		})

		It("derives a default label from the command text", func() {
			item, err := svc.AddCommand(ctx, "", "docker-compose up -d", "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(item.Label).To(Equal("docker-compose up"))
		})

		It("appends inside the named parent group", func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())

			item, err := svc.AddCommand(ctx, "up", "docker-compose up", "", group.ID)
			Expect(err).NotTo(HaveOccurred())

			node, ok := svc.Find(group.ID)
			Expect(ok).To(BeTrue())
			parent := node.(*types.CommandGroup)
			Expect(parent.Children).To(HaveLen(1))
			Expect(parent.Children[0].NodeID()).To(Equal(item.ID))
		})

		It("rejects a command item as parent", func() {
			item, err := svc.AddCommand(ctx, "ls", "ls -la", "", "")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.AddCommand(ctx, "x", "true", "", item.ID)
			Expect(errors.Is(err, library.ErrInvalidParent)).To(BeTrue())
		})

		It("rejects an unknown parent id", func() {
			_, err := svc.AddGroup(ctx, "Orphans", "missing")
			Expect(errors.Is(err, library.ErrInvalidParent)).To(BeTrue())
		})

		It("serializes a new group with an empty children array", func() {
			group, err := svc.AddGroup(ctx, "Empty", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(group.Children).NotTo(BeNil())

			raw, err := os.ReadFile(svc.FilePath())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(ContainSubstring(`"children": []`))
		})
	})

	Describe("persistence ordering", func() {
		It("has the durable copy in place before the notification fires", func() {
			observed := make(chan int, 1)
			unsub := event.Subscribe(event.LibraryUpdated, func(e event.Event) {
				data := readStored()
				select {
				case observed <- len(data.Commands):
				default:
				}
			})
			defer unsub()

			_, err := svc.AddCommand(ctx, "ls", "ls -la", "", "")
			Expect(err).NotTo(HaveOccurred())

			Eventually(observed, 2*time.Second).Should(Receive(Equal(1)))
		})
	})

	Describe("updating nodes", func() {
		It("patches command fields and keeps unset fields", func() {
			item, err := svc.AddCommand(ctx, "up", "docker-compose up", "old", "")
			Expect(err).NotTo(HaveOccurred())

			cmd := "docker-compose up -d"
			Expect(svc.EditCommand(ctx, item.ID, tree.Patch{Command: &cmd})).To(Succeed())

			node, ok := svc.Find(item.ID)
			Expect(ok).To(BeTrue())
			updated := node.(*types.CommandItem)
			Expect(updated.Command).To(Equal(cmd))
			Expect(updated.Label).To(Equal("up"))
			Expect(updated.Description).To(Equal("old"))
		})

		It("rejects editing a group as a command", func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())

			label := "x"
			err = svc.EditCommand(ctx, group.ID, tree.Patch{Label: &label})
			Expect(errors.Is(err, library.ErrNotCommand)).To(BeTrue())
		})

		It("renames a group but not an item", func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.RenameGroup(ctx, group.ID, "Compose")).To(Succeed())

			node, _ := svc.Find(group.ID)
			Expect(node.NodeLabel()).To(Equal("Compose"))

			item, err := svc.AddCommand(ctx, "ls", "ls", "", "")
			Expect(err).NotTo(HaveOccurred())
			err = svc.RenameGroup(ctx, item.ID, "nope")
			Expect(errors.Is(err, library.ErrNotGroup)).To(BeTrue())
		})

		It("returns not found for unknown ids", func() {
			err := svc.Update(ctx, "missing", tree.Patch{})
			Expect(errors.Is(err, library.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("deleting nodes", func() {
		It("removes a group together with its subtree", func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())
			item, err := svc.AddCommand(ctx, "up", "docker-compose up", "", group.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Delete(ctx, group.ID)).To(Succeed())

			_, ok := svc.Find(group.ID)
			Expect(ok).To(BeFalse())
			_, ok = svc.Find(item.ID)
			Expect(ok).To(BeFalse())
			Expect(readStored().Commands).To(BeEmpty())
		})

		It("returns not found for unknown ids", func() {
			err := svc.Delete(ctx, "missing")
			Expect(errors.Is(err, library.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("moving nodes", func() {
		var (
			groupA *types.CommandGroup
			groupB *types.CommandGroup
			first  *types.CommandItem
			second *types.CommandItem
		)

		BeforeEach(func() {
			var err error
			groupA, err = svc.AddGroup(ctx, "A", "")
			Expect(err).NotTo(HaveOccurred())
			groupB, err = svc.AddGroup(ctx, "B", "")
			Expect(err).NotTo(HaveOccurred())
			first, err = svc.AddCommand(ctx, "first", "echo 1", "", groupA.ID)
			Expect(err).NotTo(HaveOccurred())
			second, err = svc.AddCommand(ctx, "second", "echo 2", "", groupA.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		childIDs := func(groupID string) []string {
			node, ok := svc.Find(groupID)
			Expect(ok).To(BeTrue())
			group := node.(*types.CommandGroup)
			ids := make([]string, 0, len(group.Children))
			for _, c := range group.Children {
				ids = append(ids, c.NodeID())
			}
			return ids
		}

		rootIDs := func() []string {
			forest := svc.Data()
			ids := make([]string, 0, len(forest))
			for _, n := range forest {
				ids = append(ids, n.NodeID())
			}
			return ids
		}

		It("moves a node into another group", func() {
			Expect(svc.Move(ctx, first.ID, groupB.ID, tree.PositionInside)).To(Succeed())
			Expect(childIDs(groupA.ID)).To(Equal([]string{second.ID}))
			Expect(childIDs(groupB.ID)).To(Equal([]string{first.ID}))
		})

		It("rejects moving a group inside its own subtree", func() {
			err := svc.Move(ctx, groupA.ID, first.ID, tree.PositionAfter)
			Expect(errors.Is(err, library.ErrInvalidMove)).To(BeTrue())
			// Forest untouched
			Expect(childIDs(groupA.ID)).To(Equal([]string{first.ID, second.ID}))
		})

		It("swaps with the predecessor and successor", func() {
			Expect(svc.MoveUp(ctx, second.ID)).To(Succeed())
			Expect(childIDs(groupA.ID)).To(Equal([]string{second.ID, first.ID}))

			Expect(svc.MoveDown(ctx, second.ID)).To(Succeed())
			Expect(childIDs(groupA.ID)).To(Equal([]string{first.ID, second.ID}))
		})

		It("treats boundary swaps as silent no-ops", func() {
			before := readStored()
			Expect(svc.MoveUp(ctx, first.ID)).To(Succeed())
			Expect(svc.MoveDown(ctx, second.ID)).To(Succeed())

			after := readStored()
			beforeJSON, _ := json.Marshal(before)
			afterJSON, _ := json.Marshal(after)
			Expect(string(afterJSON)).To(Equal(string(beforeJSON)))
		})

		It("moves a nested node to the end of the root on an empty drop", func() {
			Expect(svc.Drop(ctx, first.ID, "")).To(Succeed())
			ids := rootIDs()
			Expect(ids[len(ids)-1]).To(Equal(first.ID))
			Expect(childIDs(groupA.ID)).To(Equal([]string{second.ID}))
		})

		It("drops onto a group by appending inside it", func() {
			Expect(svc.Drop(ctx, first.ID, groupB.ID)).To(Succeed())
			Expect(childIDs(groupB.ID)).To(Equal([]string{first.ID}))
		})

		It("drops onto an item by inserting after it", func() {
			third, err := svc.AddCommand(ctx, "third", "echo 3", "", groupA.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Drop(ctx, third.ID, first.ID)).To(Succeed())
			Expect(childIDs(groupA.ID)).To(Equal([]string{first.ID, third.ID, second.ID}))
		})

		It("keeps every id unique after a move", func() {
			Expect(svc.Move(ctx, first.ID, groupB.ID, tree.PositionInside)).To(Succeed())

			seen := map[string]int{}
			var walk func(nodes []types.TreeNode)
			walk = func(nodes []types.TreeNode) {
				for _, n := range nodes {
					seen[n.NodeID()]++
					if g, ok := n.(*types.CommandGroup); ok {
						walk(g.Children)
					}
				}
			}
			walk(svc.Data())
			for id, count := range seen {
				Expect(count).To(Equal(1), "id %s appears %d times", id, count)
			}
		})
	})

	Describe("import and export", func() {
		It("round-trips the forest through the JSON document", func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddCommand(ctx, "up", "docker-compose up", "start", group.ID)
			Expect(err).NotTo(HaveOccurred())

			doc, err := svc.Export()
			Expect(err).NotTo(HaveOccurred())

			other := library.NewService(storage.New(GinkgoT().TempDir()))
			Expect(other.Load(ctx)).To(Succeed())
			Expect(other.Import(ctx, doc)).To(Succeed())

			roundTripped, err := other.Export()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(roundTripped)).To(Equal(string(doc)))
		})

		It("replaces the whole forest on import", func() {
			_, err := svc.AddCommand(ctx, "old", "echo old", "", "")
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Import(ctx, []byte(`{"commands":[{"id":"n1","type":"command","label":"new","command":"echo new"}]}`))).To(Succeed())

			forest := svc.Data()
			Expect(forest).To(HaveLen(1))
			Expect(forest[0].NodeID()).To(Equal("n1"))
			waitForUpdate("import")
		})

		It("accepts nodes with missing fields, trusting the document", func() {
			Expect(svc.Import(ctx, []byte(`{"commands":[{"type":"command"}]}`))).To(Succeed())
			Expect(svc.Data()).To(HaveLen(1))
		})

		It("rejects documents without a commands array", func() {
			err := svc.Import(ctx, []byte(`{"items":[]}`))
			Expect(errors.Is(err, library.ErrBadImport)).To(BeTrue())

			err = svc.Import(ctx, []byte(`{"commands":{}}`))
			Expect(errors.Is(err, library.ErrBadImport)).To(BeTrue())

			err = svc.Import(ctx, []byte(`not json`))
			Expect(errors.Is(err, library.ErrBadImport)).To(BeTrue())
		})
	})

	Describe("run and copy", func() {
		var item *types.CommandItem
		var group *types.CommandGroup

		BeforeEach(func() {
			var err error
			item, err = svc.AddCommand(ctx, "up", "docker-compose up -d", "", "")
			Expect(err).NotTo(HaveOccurred())
			group, err = svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("sends the command text to the terminal", func() {
			Expect(svc.Run(ctx, item.ID)).To(Succeed())
			Expect(term.last()).To(Equal("docker-compose up -d"))
		})

		It("writes the command text to the clipboard", func() {
			Expect(svc.Copy(ctx, item.ID)).To(Succeed())
			Expect(clip.texts).To(ContainElement("docker-compose up -d"))
		})

		It("refuses to run or copy a group", func() {
			Expect(errors.Is(svc.Run(ctx, group.ID), library.ErrNotCommand)).To(BeTrue())
			Expect(errors.Is(svc.Copy(ctx, group.ID), library.ErrNotCommand)).To(BeTrue())
		})

		It("does not mutate or notify on run", func() {
			before, err := svc.Export()
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Run(ctx, item.ID)).To(Succeed())

			after, err := svc.Export()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(after)).To(Equal(string(before)))
		})
	})

	Describe("search", func() {
		BeforeEach(func() {
			group, err := svc.AddGroup(ctx, "Docker", "")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddCommand(ctx, "compose up", "docker-compose up -d", "", group.ID)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.AddCommand(ctx, "list files", "ls -la", "", "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("matches labels and command text case-insensitively", func() {
			Expect(svc.Search("COMPOSE")).To(HaveLen(1))
			Expect(svc.Search("ls -la")).To(HaveLen(1))
			Expect(svc.Search("docker")).To(HaveLen(2)) // group label + command text
		})

		It("supports wildcard patterns", func() {
			Expect(svc.Search("compose*")).To(HaveLen(1))
			Expect(svc.Search("*")).To(HaveLen(3))
		})

		It("suggests the nearest label for a near miss", func() {
			suggestion, ok := svc.Suggest("compose upp")
			Expect(ok).To(BeTrue())
			Expect(suggestion).To(Equal("compose up"))
		})
	})

	Describe("snapshot isolation", func() {
		It("hands out copies that cannot mutate the live forest", func() {
			item, err := svc.AddCommand(ctx, "up", "docker-compose up", "", "")
			Expect(err).NotTo(HaveOccurred())

			snapshot := svc.Data()
			snapshot[0].(*types.CommandItem).Label = "tampered"

			node, ok := svc.Find(item.ID)
			Expect(ok).To(BeTrue())
			Expect(node.NodeLabel()).To(Equal("up"))
		})
	})

	Describe("reload", func() {
		It("picks up an externally rewritten library file", func() {
			_, err := svc.AddCommand(ctx, "old", "echo old", "", "")
			Expect(err).NotTo(HaveOccurred())

			external := `{"commands":[{"id":"x1","type":"command","label":"external","command":"echo hi"}]}`
			Expect(os.WriteFile(svc.FilePath(), []byte(external), 0o644)).To(Succeed())

			Expect(svc.Reload(ctx)).To(Succeed())
			forest := svc.Data()
			Expect(forest).To(HaveLen(1))
			Expect(forest[0].NodeLabel()).To(Equal("external"))
			waitForUpdate("reload")
		})
	})
})
