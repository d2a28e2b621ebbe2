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
	"errors"
	"testing"
	"time"

	"droplet_manager/internal/core"
	"droplet_manager/internal/core/mock_core"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeSender struct {
	channels []string
	embeds   []*discordgo.MessageEmbed
	err      error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channels = append(f.channels, channelID)
	f.embeds = append(f.embeds, embed)

	return &discordgo.Message{}, f.err
}

func TestFanoutDeliversToAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mock_core.NewMockNotifier(ctrl)
	second := mock_core.NewMockNotifier(ctrl)

	gomock.InOrder(
		first.EXPECT().Notify("Resize accepted", "low -> high", core.SeverityInfo).Times(1),
		second.EXPECT().Notify("Resize accepted", "low -> high", core.SeverityInfo).Times(1),
	)

	Fanout{first, nil, second}.Notify("Resize accepted", "low -> high", core.SeverityInfo)
}

func TestDiscordNotifierSendsEmbed(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewDiscordNotifier(sender, "1234")
	notifier.now = func() time.Time {
		return time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	}

	notifier.Notify("Reboot failed", "reboot failed with status 500", core.SeverityError)

	require.Len(t, sender.embeds, 1)
	assert.Equal(t, "1234", sender.channels[0])
	assert.Equal(t, "Reboot failed", sender.embeds[0].Title)
	assert.Equal(t, colorError, sender.embeds[0].Color)
	assert.Equal(t, "2024-03-04T10:00:00Z", sender.embeds[0].Timestamp)
}

func TestDiscordNotifierSwallowsErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}

	assert.NotPanics(t, func() {
		NewDiscordNotifier(sender, "1234").Notify("t", "b", core.SeverityWarning)
	})
	assert.Equal(t, colorWarning, sender.embeds[0].Color)
}

func TestDiscordNotifierWithoutChannel(t *testing.T) {
	sender := &fakeSender{}

	NewDiscordNotifier(sender, "").Notify("t", "b", core.SeverityInfo)

	assert.Empty(t, sender.embeds)
}

func TestLogNotifier(t *testing.T) {
	for _, severity := range []core.Severity{core.SeverityInfo, core.SeverityWarning, core.SeverityError} {
		assert.NotPanics(t, func() {
			LogNotifier{}.Notify("title", "body", severity)
		})
	}
}
