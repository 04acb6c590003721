package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type bot struct {
	sender   messageSender
	resolver *resolver
	videos   videoMatcher
	logger   *zap.Logger

	wg sync.WaitGroup
}

func newBot(sender messageSender, r *resolver, videos videoMatcher, logger *zap.Logger) *bot {
	return &bot{
		sender:   sender,
		resolver: r,
		videos:   videos,
		logger:   logger,
	}
}

// ReverseShortURL renders the reply for a message: the redirect chain of
// every URL found in msg and, for bilibili videos, the converted id.
func (b *bot) ReverseShortURL(ctx context.Context, msg string) (string, error) {
	shortURLs, err := findURLs(msg)
	if err != nil {
		return "", err
	}

	chains := b.resolver.ResolveAll(ctx, shortURLs)

	var result strings.Builder
	for i, s := range shortURLs {
		longURL := chains[i]
		lastURL := s
		if len(longURL) > 0 {
			fmt.Fprintf(&result, "✅ %s\n", strings.Join(longURL, "\n➡️ "))
			lastURL = longURL[len(longURL)-1]
		} else {
			fmt.Fprintf(&result, "❌ %s\n", s)
		}

		if from, to, err := b.videos.convert(lastURL); err == nil {
			fmt.Fprintf(&result, "🆎 %s ➡️ %s\n", from, to)
		} else {
			b.logger.Debug("no video id", zap.String("url", lastURL), zap.Error(err))
		}
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n\n"), nil
}

// handleUpdates replies to every message in updates until the channel is
// closed or ctx is done, then waits for in-flight replies.
func (b *bot) handleUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			if (len(update.Message.Text) == 0 && len(update.Message.Caption) == 0) || strings.HasPrefix(update.Message.Text, "/") {
				continue
			}

			b.wg.Add(1)
			go func(receive *tgbotapi.Message) {
				defer b.wg.Done()
				b.reply(ctx, receive)
			}(update.Message)
		}
	}
}

func (b *bot) reply(ctx context.Context, receive *tgbotapi.Message) {
	text := receive.Text
	if len(text) == 0 {
		text = receive.Caption
	}

	reply, err := b.ReverseShortURL(ctx, text)
	if err != nil {
		b.logger.Debug("nothing to reply", zap.Int("message_id", receive.MessageID), zap.Error(err))
		return
	}

	msg := tgbotapi.NewMessage(receive.Chat.ID, reply)
	msg.ReplyToMessageID = receive.MessageID
	msg.DisableWebPagePreview = true
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("send reply", zap.Int64("chat_id", receive.Chat.ID), zap.Error(err))
	}
}
