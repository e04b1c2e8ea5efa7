package bootflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ccboot/bootlogin/internal/menu"
)

// Target is a parsed multi-boot descriptor.
type Target struct {
	// Prefix is the descriptor up to and including the final ':'.
	Prefix string
	// Count is the number of boot images, 1 to menu.MaxItems.
	Count int
}

// ParseTarget splits a multi-boot descriptor into its prefix and image
// count. The count is the first character after the final ':' and must be
// a digit from 1 to menu.MaxItems.
func ParseTarget(descriptor string) (Target, error) {
	i := strings.LastIndexByte(descriptor, ':')
	if i < 0 {
		return Target{}, NewMalformedTargetError(descriptor, "no ':' field delimiter")
	}

	field := descriptor[i+1:]
	if field == "" {
		return Target{}, NewMalformedTargetError(descriptor, "missing image count after final ':'")
	}

	c := field[0]
	if c < '1' || c > '0'+menu.MaxItems {
		return Target{}, NewMalformedTargetError(descriptor,
			fmt.Sprintf("image count %q is not a digit between 1 and %d", c, menu.MaxItems))
	}

	return Target{Prefix: descriptor[:i+1], Count: int(c - '0')}, nil
}

// ParseLabels splits a ";"-terminated label list. At most menu.MaxItems
// labels are returned, each cut to menu.LabelCapacity bytes. Text after the
// last ';' is ignored.
func ParseLabels(list string) []string {
	var labels []string
	for len(labels) < menu.MaxItems {
		i := strings.IndexByte(list, ';')
		if i < 0 {
			break
		}
		labels = append(labels, menu.Truncate(list[:i], menu.LabelCapacity))
		list = list[i+1:]
	}
	return labels
}

// RootPath composes the root path for the 0-based image index.
func (t Target) RootPath(index int) string {
	return ComposeRootPath(t.Prefix, index)
}

// ComposeRootPath appends index as a three-digit decimal to prefix.
func ComposeRootPath(prefix string, index int) string {
	return fmt.Sprintf("%s%03d", prefix, index)
}

// BuildMenu creates the boot menu for t: Count rows, labelled in order from
// labels, with rows past the end of labels left blank.
func BuildMenu(t Target, labels []string, timeout int) *menu.Menu {
	m := &menu.Menu{Timeout: timeout}
	m.SetPrompt(MenuPrompt)
	for i := 0; i < t.Count; i++ {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		// Count never exceeds MaxItems, so this cannot fail.
		_ = m.AddItem(label)
	}
	return m
}

// ParseTimeout interprets the multi-boot timeout setting, an unsigned 8-bit
// number of seconds. Empty, zero and unparsable values give def.
func ParseTimeout(value string, def int) int {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
	if err != nil || n == 0 {
		return def
	}
	return int(n)
}
