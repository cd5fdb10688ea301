package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn is where file descriptions start.
	descriptionColumn = 30
)

// treeNode is a node in a rendered file tree.
type treeNode struct {
	name        string
	description string
	isDir       bool
	children    []*treeNode
}

// RenderFileTree renders files (relative path -> description) under root.
// Directories sort before files, then alphabetically.
func RenderFileTree(root string, files map[string]string) string {
	if len(files) == 0 {
		return ""
	}

	top := &treeNode{name: root, isDir: true}

	for path, desc := range files {
		parts := strings.Split(filepath.ToSlash(path), "/")
		current := top

		for i, part := range parts {
			isLast := i == len(parts)-1

			var child *treeNode
			for _, c := range current.children {
				if c.name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &treeNode{name: part, isDir: !isLast}
				current.children = append(current.children, child)
			}
			if isLast {
				child.description = desc
			}
			current = child
		}
	}

	sortTree(top)

	var sb strings.Builder
	sb.WriteString(StyleBold.Render(top.name + "/"))
	sb.WriteString("\n")
	for i, child := range top.children {
		renderNode(&sb, child, "", i == len(top.children)-1)
	}
	return sb.String()
}

// RenderSimpleTree renders a tree without descriptions.
func RenderSimpleTree(root string, files []string) string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f] = ""
	}
	return RenderFileTree(root, m)
}

func sortTree(node *treeNode) {
	sort.Slice(node.children, func(i, j int) bool {
		if node.children[i].isDir != node.children[j].isDir {
			return node.children[i].isDir
		}
		return node.children[i].name < node.children[j].name
	})
	for _, child := range node.children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *treeNode, prefix string, isLast bool) {
	connector := treeEdge
	if isLast {
		connector = treeLast
	}

	name := node.name
	if node.isDir {
		name += "/"
	}
	line := prefix + connector + name

	if node.description != "" {
		padding := descriptionColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding) + StyleMuted.Render(node.description)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	childPrefix := prefix + treeVert
	if isLast {
		childPrefix = prefix + treeSpace
	}
	for i, child := range node.children {
		renderNode(sb, child, childPrefix, i == len(node.children)-1)
	}
}
