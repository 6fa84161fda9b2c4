package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LikeSet 点赞用户ID集合，保持插入顺序，每个用户最多出现一次。
// 服务端可能返回纯ID字符串，也可能返回内嵌的用户对象，解码时统一归一化为ID。
type LikeSet []string

// NewLikeSet 创建集合并去重
func NewLikeSet(ids ...string) LikeSet {
	set := make(LikeSet, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		set = append(set, id)
	}
	return set
}

// Has 是否包含该用户
func (s LikeSet) Has(userID string) bool {
	for _, id := range s {
		if id == userID {
			return true
		}
	}
	return false
}

// With 返回包含 userID 的新集合
func (s LikeSet) With(userID string) LikeSet {
	if s.Has(userID) {
		return s
	}
	out := make(LikeSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, userID)
}

// Without 返回移除 userID 后的新集合
func (s LikeSet) Without(userID string) LikeSet {
	if !s.Has(userID) {
		return s
	}
	out := make(LikeSet, 0, len(s))
	for _, id := range s {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// Toggle 翻转 userID 的成员关系
func (s LikeSet) Toggle(userID string) LikeSet {
	if s.Has(userID) {
		return s.Without(userID)
	}
	return s.With(userID)
}

// Restore 把 userID 的成员关系恢复为 member
func (s LikeSet) Restore(userID string, member bool) LikeSet {
	if member {
		return s.With(userID)
	}
	return s.Without(userID)
}

// UnmarshalJSON 同时接受 ["u1"] 与 [{"_id":"u1", ...}] 两种形式
func (s *LikeSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = LikeSet{}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("likes: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		id, err := likeID(item)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*s = NewLikeSet(ids...)
	return nil
}

// MarshalJSON 始终输出ID数组
func (s LikeSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

func likeID(item json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return "", fmt.Errorf("likes: %w", err)
		}
		return id, nil
	}

	var ref UserRef
	if err := json.Unmarshal(trimmed, &ref); err != nil {
		return "", fmt.Errorf("likes: unsupported entry %s: %w", string(trimmed), err)
	}
	return ref.ID, nil
}
