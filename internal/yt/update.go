package yt

import (
	"context"
	"os/exec"

	"go.uber.org/zap"
)

// UpdateYtdlp runs the self-updater of the binary used by the ytdlp source.
func UpdateYtdlp(ctx context.Context, binary string, log *zap.Logger) string {
	if binary == "" {
		binary = "yt-dlp"
	}
	log.Info("Перевірка оновлення yt-dlp")
	cmd := exec.CommandContext(ctx, binary, "-U")
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("yt-dlp error", zap.Error(err), zap.ByteString("output", output))
		return string(output) + "\nПомилка оновлення: " + err.Error()
	}
	log.Info("yt-dlp оновлено", zap.ByteString("output", output))

	version, err := exec.CommandContext(ctx, binary, "--version").CombinedOutput()
	if err != nil {
		return string(output)
	}
	return string(output) + "\nПоточна версія yt-dlp: " + string(version)
}
