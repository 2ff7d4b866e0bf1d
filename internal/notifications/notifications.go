// Package notifications projects the hive collection into an alert feed.
// Entries are recomputed on every read and never stored.
package notifications

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/beemind/hub/internal/models"
)

const (
	// LowBatteryThreshold is the battery percentage below which a hive
	// gets an informational low-battery entry.
	LowBatteryThreshold = 20

	fallbackMessage = "Hive requires attention"
)

// Derive builds the notification entries for hives. Status entries are
// unread; low-battery entries are marked read and skipped when the hive
// already has an entry mentioning "battery".
func Derive(hives []models.Hive, now time.Time) []models.Notification {
	out := make([]models.Notification, 0, len(hives))
	seq := 0
	next := func() string {
		seq++
		return fmt.Sprintf("n-%d", seq)
	}

	for _, h := range hives {
		var typ models.NotificationType
		switch h.Status {
		case models.StatusCritical:
			typ = models.NotificationCritical
		case models.StatusWarning:
			typ = models.NotificationWarning
		default:
			continue
		}
		msg := fallbackMessage
		if h.AlertType != nil {
			msg = *h.AlertType
		}
		out = append(out, models.Notification{
			ID:      next(),
			Type:    typ,
			HiveID:  h.ID,
			Message: msg,
			Time:    eventTime(h, now),
		})
	}

	for _, h := range hives {
		if h.Battery >= LowBatteryThreshold || mentionsBattery(out, h.ID) {
			continue
		}
		out = append(out, models.Notification{
			ID:      next(),
			Type:    models.NotificationWarning,
			HiveID:  h.ID,
			Message: fmt.Sprintf("Low battery (%d%%)", int(math.Round(h.Battery))),
			Time:    eventTime(h, now),
			Read:    true,
		})
	}
	return out
}

func mentionsBattery(entries []models.Notification, hiveID string) bool {
	for _, n := range entries {
		if n.HiveID == hiveID && strings.Contains(n.Message, "battery") {
			return true
		}
	}
	return false
}

func eventTime(h models.Hive, now time.Time) time.Time {
	if h.UpdatedAt.IsZero() {
		return now
	}
	return h.UpdatedAt
}

// Activity returns a copy of entries with critical ones first, newest first
// within a severity.
func Activity(entries []models.Notification) []models.Notification {
	out := make([]models.Notification, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Type), rank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		return out[i].Time.After(out[j].Time)
	})
	return out
}

func rank(t models.NotificationType) int {
	if t == models.NotificationCritical {
		return 0
	}
	return 1
}

// UnreadCount returns how many entries still need acknowledgment.
func UnreadCount(entries []models.Notification) int {
	n := 0
	for _, e := range entries {
		if !e.Read {
			n++
		}
	}
	return n
}

// Unread filters entries down to the unread ones.
func Unread(entries []models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(entries))
	for _, e := range entries {
		if !e.Read {
			out = append(out, e)
		}
	}
	return out
}
