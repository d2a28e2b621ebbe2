/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package notify

import (
	"time"

	"droplet_manager/internal/core"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const (
	colorInfo    = 0x3498db
	colorWarning = 0xf1c40f
	colorError   = 0xe74c3c
)

type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts notifications as embeds into the log channel.
type DiscordNotifier struct {
	sender    embedSender
	channelID string
	now       func() time.Time
}

func NewDiscordNotifier(sender embedSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		sender:    sender,
		channelID: channelID,
		now:       time.Now,
	}
}

func (n *DiscordNotifier) Notify(title, body string, severity core.Severity) {
	if n.channelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
		Color:       embedColor(severity),
		Timestamp:   n.now().Format(time.RFC3339),
	}

	if _, err := n.sender.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		logrus.Warnf("Failed to deliver notification %q to channel %s (error : %v)", title, n.channelID, err)
	}
}

func embedColor(severity core.Severity) int {
	switch severity {
	case core.SeverityError:
		return colorError
	case core.SeverityWarning:
		return colorWarning
	default:
		return colorInfo
	}
}
