package mail

import (
	"errors"
	"sort"
	"strings"

	"github.com/emersion/go-imap/v2"
)

// Keyword flags understood by common clients for junk handling
const (
	flagJunk     imap.Flag = "$Junk"
	flagPhishing imap.Flag = "$Phishing"
)

// ErrMailboxNotFound is returned when no mailbox matches a requested name
var ErrMailboxNotFound = errors.New("mailbox not found")

var (
	archiveCandidates = []string{"Archive", "Archives", "[Gmail]/All Mail", "INBOX.Archive"}
	junkCandidates    = []string{"Junk", "Spam", "Junk E-mail", "Junk Email", "[Gmail]/Spam", "INBOX.Junk", "INBOX.Spam"}
	trashCandidates   = []string{"Trash", "Deleted Items", "Deleted Messages", "[Gmail]/Trash", "INBOX.Trash"}
)

// resolveMailbox finds the server's name for a mailbox. A configured name is
// matched case-insensitively and is the only name considered when set;
// otherwise the special-use attribute is tried before the candidate names.
func resolveMailbox(mailboxes []*imap.ListData, configured string, attr imap.MailboxAttr, candidates []string) (string, bool) {
	if configured != "" {
		return findByName(mailboxes, configured)
	}

	if attr != "" {
		for _, mbox := range mailboxes {
			for _, a := range mbox.Attrs {
				if a == attr {
					return mbox.Mailbox, true
				}
			}
		}
	}

	for _, candidate := range candidates {
		if name, ok := findByName(mailboxes, candidate); ok {
			return name, true
		}
	}

	return "", false
}

// findByName matches a mailbox name ignoring case. An exact match wins.
func findByName(mailboxes []*imap.ListData, name string) (string, bool) {
	match := ""
	for _, mbox := range mailboxes {
		if mbox.Mailbox == name {
			return mbox.Mailbox, true
		}
		if match == "" && strings.EqualFold(mbox.Mailbox, name) {
			match = mbox.Mailbox
		}
	}
	return match, match != ""
}

// newestFirst orders UIDs from newest to oldest and keeps at most limit of them
func newestFirst(uids []imap.UID, limit int) []imap.UID {
	out := append([]imap.UID(nil), uids...)
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
