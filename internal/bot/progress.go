package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const progressWidth = 20

// progressBar builds the visual block bar, e.g. [████░░░░░░░░░░░░░░░░] 20%.
func progressBar(pct int) string {
	filled := progressWidth * pct / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	return fmt.Sprintf("[%s] %d%%", bar, pct)
}

// progressPhase advances the bar toward target, one step every delay.
type progressPhase struct {
	target int
	delay  time.Duration
	step   int
}

// The generation call dominates wall time, so the bar spends most of its
// budget in the first phase and then holds at 99% until the work finishes.
var progressPhases = []progressPhase{
	{target: 80, delay: 2 * time.Second, step: 3},         // writing
	{target: 95, delay: 1500 * time.Millisecond, step: 2}, // rendering
	{target: 99, delay: time.Second, step: 1},             // finalizing
}

func progressLabel(pct int) string {
	switch {
	case pct < 80:
		return "🤖 AI Writing Paper..."
	case pct < 95:
		return "📐 Rendering Paper..."
	default:
		return "✨ Finalizing..."
	}
}

// animateProgress edits the status message with an advancing bar until stop
// is closed. Edit failures (e.g. "message is not modified") are ignored.
func (b *Bot) animateProgress(chatID int64, messageID int, title string, stop <-chan struct{}) {
	pct := 0
	for _, phase := range progressPhases {
		for pct < phase.target {
			select {
			case <-stop:
				return
			case <-time.After(phase.delay):
			}
			pct = min(pct+phase.step, phase.target)
			edit := tgbotapi.NewEditMessageText(chatID, messageID, statusText(title, progressLabel(pct), pct))
			edit.ParseMode = tgbotapi.ModeHTML
			_, _ = b.api.Send(edit)
		}
	}
	<-stop
}

func statusText(title, label string, pct int) string {
	return fmt.Sprintf(
		"⚙️ <b>Generating Research Paper</b>\n\n📌 <i>%s</i>\n\n%s\n<code>%s</code>",
		title, label, progressBar(pct))
}
