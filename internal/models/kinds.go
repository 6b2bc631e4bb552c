package models

import (
	"encoding/json"
	"fmt"
)

// ReactionKind is the closed set of reactions an account can leave on a post.
type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionHaha  ReactionKind = "haha"
	ReactionWow   ReactionKind = "wow"
	ReactionSad   ReactionKind = "sad"
	ReactionAngry ReactionKind = "angry"
)

// ReactionKinds lists every valid reaction in display order.
var ReactionKinds = []ReactionKind{ReactionLike, ReactionLove, ReactionHaha, ReactionWow, ReactionSad, ReactionAngry}

// Valid reports whether k is one of the known reaction kinds.
func (k ReactionKind) Valid() bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseReactionKind converts s into a ReactionKind, rejecting unknown values.
func ParseReactionKind(s string) (ReactionKind, error) {
	k := ReactionKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown reaction kind %q", s)
	}
	return k, nil
}

// UnmarshalJSON accepts an empty string (meaning "not provided") or a known kind.
func (k *ReactionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*k = ""
		return nil
	}
	parsed, err := ParseReactionKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NotificationKind is the closed set of notification types.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationReply   NotificationKind = "reply"
	NotificationFollow  NotificationKind = "follow"
	NotificationShare   NotificationKind = "share"
	NotificationSystem  NotificationKind = "system"
)

var notificationKinds = []NotificationKind{
	NotificationLike, NotificationComment, NotificationReply,
	NotificationFollow, NotificationShare, NotificationSystem,
}

// Valid reports whether k is one of the known notification kinds.
func (k NotificationKind) Valid() bool {
	for _, known := range notificationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts s into a NotificationKind, rejecting unknown values.
func ParseNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown notification kind %q", s)
	}
	return k, nil
}

func (k *NotificationKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNotificationKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Role is an account's privilege level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
