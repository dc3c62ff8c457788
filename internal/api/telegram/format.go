package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shot-coach/internal/domain/entity"
)

// incomingFile — видео из сообщения
type incomingFile struct {
	id   string
	size int
}

// videoFile достаёт видео из сообщения: ролик, кружок, анимацию или документ video/*.
func videoFile(msg *tgbotapi.Message) (incomingFile, bool) {
	switch {
	case msg.Video != nil:
		return incomingFile{id: msg.Video.FileID, size: msg.Video.FileSize}, true
	case msg.VideoNote != nil:
		return incomingFile{id: msg.VideoNote.FileID, size: msg.VideoNote.FileSize}, true
	case msg.Animation != nil:
		return incomingFile{id: msg.Animation.FileID, size: msg.Animation.FileSize}, true
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/"):
		return incomingFile{id: msg.Document.FileID, size: msg.Document.FileSize}, true
	}
	return incomingFile{}, false
}

// parseShot: /serve и /smash — сокращения, /feedback берёт удар из аргумента.
func parseShot(command, args string) string {
	if command != "feedback" {
		return entity.NormalizeShotType(command)
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return entity.NormalizeShotType(fields[0])
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func formatLabel(label string) string {
	if label == "" || label == entity.UnknownShot {
		return msgUnknownLabel
	}
	return fmt.Sprintf(msgShotType, label)
}

// formatReport сворачивает покадровый отчёт в короткий текст
func formatReport(r *entity.VideoReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Удар «%s»: %d кадров, %d fps\n", r.ShotType, len(r.Frames), r.FPS)

	summary := r.Summary()
	if len(summary) == 0 {
		sb.WriteString("\n✅ Замечаний нет.")
		return sb.String()
	}

	sb.WriteString("\nЗамечания:\n")
	for _, s := range summary {
		fmt.Fprintf(&sb, "⚠️ %s — %d из %d кадров\n", s.Message, s.Frames, len(r.Frames))
	}
	return strings.TrimRight(sb.String(), "\n")
}
