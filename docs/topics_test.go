package docs

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the "* name: description" entries of the index.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open(Index + ".md")
	if err != nil {
		t.Fatalf("failed to open %s.md: %v", Index, err)
	}
	defer file.Close()

	topicRegex := regexp.MustCompile(`^\*\s+([^:` + "`" + `]+):.*$`)
	var topics []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning %s.md: %v", Index, err)
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}

	// Every listed topic loads, and every topic is listed.
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in %s.md", topic, Index)
		}
	}

	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Errorf("GetTopic() of an unknown topic expected an error")
	}
}

func TestGetTopics_Star(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	content, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) unexpected error: %v", err)
	}
	for _, topic := range all {
		title, err := Title(topic)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(content, "# "+title) {
			t.Errorf("GetTopic(*) is missing topic %q", topic)
		}
	}
}

// TestStructure checks that every topic is a document with a single title
// and well-formed bash examples.
func TestStructure(t *testing.T) {
	topics, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range append(topics, Index) {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))

			titles := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				switch n := n.(type) {
				case *ast.Heading:
					if n.Level == 1 {
						titles++
					}
				case *ast.FencedCodeBlock:
					if string(n.Language(source)) != "bash" {
						return ast.WalkContinue, nil
					}
					for i := 0; i < n.Lines().Len(); i++ {
						seg := n.Lines().At(i)
						line := strings.TrimSpace(string(seg.Value(source)))
						if line != "" && !strings.HasPrefix(line, "bgt ") {
							t.Errorf("bash example %q does not run bgt", line)
						}
					}
				}
				return ast.WalkContinue, nil
			})
			if titles != 1 {
				t.Errorf("topic has %d level-one headings, want 1", titles)
			}
		})
	}
}
