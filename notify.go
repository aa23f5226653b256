package msgr

import (
	"os/exec"
	"strings"
)

/*
Desktop notifier. Notification is an out-of-band side channel invoked as
an external command (notify-send compatible): an optional urgency flag,
a header string and a "culprit: message" body. Invocation failures are
swallowed into a log entry, never raised.
*/

// urgencyFlag maps an urgency to the notifier's command-line flag ("" to
// omit the flag).
func urgencyFlag(urgency Urgency) string {
	switch normUrgency(urgency) {
	case URGENCY_LOW:
		return "--urgency=low"
	case URGENCY_NORMAL:
		return "--urgency=normal"
	case URGENCY_CRITICAL:
		return "--urgency=critical"
	}
	return ""
}

// sendNotification invokes the notifier command. The urgency is the
// explicit override when given, critical for error informants, default
// otherwise. The header falls back to the program name so the bubble
// always has a title.
func (n *Informer) sendNotification(a *Informant, urgency Urgency, header, culprit, body string) {
	if normUrgency(urgency) == URGENCY_DEFAULT && a.spec.IsError {
		urgency = URGENCY_CRITICAL
	}
	title := strings.TrimRight(header, ": ")
	if title == "" {
		title = n.progName
	}
	text := body
	if culprit != "" {
		text = culprit + ": " + body
	}
	argv := make([]string, 0, len(n.notifier)+3)
	argv = append(argv, n.notifier...)
	if flag := urgencyFlag(urgency); flag != "" {
		argv = append(argv, flag)
	}
	argv = append(argv, title, text)
	if err := n.notifyExec(argv); err != nil {
		// lower-severity entry; notification failures must not cascade
		Log.Emit("notifier failed: " + err.Error())
	}
}

// runNotifier executes the notifier command line.
func runNotifier(argv []string) error {
	return exec.Command(argv[0], argv[1:]...).Run()
}
