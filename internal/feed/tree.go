package feed

// 评论树的纯函数变换。
// 所有操作都返回新的切片，沿修改路径逐层复制，未受影响的兄弟子树与输入共享。
// 目标ID不存在时返回原切片和 false，不视为错误：网络响应可能晚于一次整体刷新到达。

// InsertReply 深度优先查找 parentID，把 reply 追加到它的 Replies 末尾。
// 第一个匹配即停止。
func InsertReply(tree []Comment, parentID string, reply Comment) ([]Comment, bool) {
	for i := range tree {
		node := tree[i]
		if node.ID == parentID {
			replies := make([]Comment, len(node.Replies), len(node.Replies)+1)
			copy(replies, node.Replies)
			node.Replies = append(replies, reply)
			return replaceAt(tree, i, node), true
		}
		if children, ok := InsertReply(node.Replies, parentID, reply); ok {
			node.Replies = children
			return replaceAt(tree, i, node), true
		}
	}
	return tree, false
}

// ReplaceNode 在任意深度用 node 原位替换ID为 id 的节点
func ReplaceNode(tree []Comment, id string, node Comment) ([]Comment, bool) {
	return UpdateNode(tree, id, func(Comment) Comment { return node })
}

// UpdateNode 在任意深度对ID为 id 的第一个节点应用 fn
func UpdateNode(tree []Comment, id string, fn func(Comment) Comment) ([]Comment, bool) {
	for i := range tree {
		node := tree[i]
		if node.ID == id {
			return replaceAt(tree, i, fn(node)), true
		}
		if children, ok := UpdateNode(node.Replies, id, fn); ok {
			node.Replies = children
			return replaceAt(tree, i, node), true
		}
	}
	return tree, false
}

// RemoveNode 删除所有ID为 id 的节点。
// 删除后仍继续搜索剩余兄弟的子树，可能同时存在多条乐观插入。
func RemoveNode(tree []Comment, id string) ([]Comment, bool) {
	var out []Comment
	removed := false

	for i := range tree {
		node := tree[i]
		if node.ID == id {
			if out == nil {
				out = make([]Comment, i, len(tree))
				copy(out, tree[:i])
			}
			removed = true
			continue
		}

		if children, ok := RemoveNode(node.Replies, id); ok {
			node.Replies = children
			if out == nil {
				out = make([]Comment, i, len(tree))
				copy(out, tree[:i])
			}
			removed = true
		}

		if out != nil {
			out = append(out, node)
		}
	}

	if !removed {
		return tree, false
	}
	return out, true
}

// FindNode 深度优先查找节点
func FindNode(tree []Comment, id string) (Comment, bool) {
	for _, node := range tree {
		if node.ID == id {
			return node, true
		}
		if found, ok := FindNode(node.Replies, id); ok {
			return found, true
		}
	}
	return Comment{}, false
}

func replaceAt(tree []Comment, i int, node Comment) []Comment {
	out := make([]Comment, len(tree))
	copy(out, tree)
	out[i] = node
	return out
}
