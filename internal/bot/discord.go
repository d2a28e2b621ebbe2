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

package bot

import (
	"context"
	"strings"

	"droplet_manager/pkg/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

const maxButtonsPerRow = 5

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "disable_auto",
		Description: "Disable automatic resizing for a number of hours",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "hours",
				Description: "How long automatic resizing stays off",
				Required:    true,
			},
		},
	},
	{Name: "enable_auto", Description: "Re-enable automatic resizing"},
	{Name: "players", Description: "Show the number of active players"},
	{Name: "force_restart", Description: "Reboot the droplet"},
	{Name: "panel", Description: "Droplet management panel"},
	{Name: "embed", Description: "Droplet management panel"},
	{Name: "status", Description: "Show the autoscaler state"},
	{Name: "ping", Description: "Ping the server to check if it is accessible from the public internet"},
	{
		Name:        "add_role",
		Description: "Authorize roles to manage the droplet",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "roles", Description: "Role ids", Required: true},
		},
	},
	{
		Name:        "add_user",
		Description: "Authorize users to manage the droplet",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "users", Description: "User ids", Required: true},
		},
	},
	{Name: "reload", Description: "Reload authorized roles and users"},
}

type interactionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot routes Discord interactions to the dispatcher.
type Bot struct {
	session    *discordgo.Session
	responder  interactionSession
	dispatcher *Dispatcher
	guildID    string

	ctx context.Context
}

func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return session, nil
}

func NewBot(session *discordgo.Session, dispatcher *Dispatcher, guildID string) *Bot {
	return &Bot{
		session:    session,
		responder:  session,
		dispatcher: dispatcher,
		guildID:    guildID,
		ctx:        context.Background(),
	}
}

func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logrus.Infof("Connected to Discord as %s", r.User.String())
	})
	b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handle(i.Interaction)
	})

	if err := b.session.Open(); err != nil {
		return err
	}
	defer b.session.Close()

	if err := b.session.UpdateWatchStatus(0, "FX Systems"); err != nil {
		logrus.Warnf("Failed to set presence (error : %v)", err)
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.guildID, commands)
	if err != nil {
		return err
	}
	logrus.Infof("Synced %d commands", len(registered))

	<-ctx.Done()
	logrus.Info("Discord bot stopped")

	return nil
}

func (b *Bot) handle(i *discordgo.Interaction) {
	actor := actorOf(i)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.command(i, actor)
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, confirmPrefix) {
			b.deferred(i, true, func(ctx context.Context) Reply {
				return b.dispatcher.Button(ctx, actor, customID)
			})
			return
		}

		b.respond(i, b.dispatcher.Button(b.ctx, actor, customID))
	}
}

func (b *Bot) command(i *discordgo.Interaction, actor Actor) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case "disable_auto":
		b.respond(i, b.dispatcher.DisableAuto(actor, int(optionInt(data.Options, "hours"))))
	case "enable_auto":
		b.respond(i, b.dispatcher.EnableAuto(actor))
	case "players":
		b.deferred(i, false, func(ctx context.Context) Reply {
			return b.dispatcher.Players(ctx, actor)
		})
	case "force_restart":
		b.deferred(i, false, func(ctx context.Context) Reply {
			return b.dispatcher.ForceRestart(ctx, actor)
		})
	case "panel", "embed":
		b.respond(i, b.dispatcher.Panel(actor))
	case "status":
		b.respond(i, b.dispatcher.Status())
	case "ping":
		b.deferred(i, false, func(ctx context.Context) Reply {
			return b.dispatcher.Ping(ctx)
		})
	case "add_role":
		b.respond(i, b.dispatcher.AddRoles(b.ctx, actor, []string{optionString(data.Options, "roles")}))
	case "add_user":
		b.respond(i, b.dispatcher.AddUsers(b.ctx, actor, []string{optionString(data.Options, "users")}))
	case "reload":
		b.respond(i, b.dispatcher.Reload(b.ctx, actor))
	default:
		logrus.Warnf("Unknown command %s", data.Name)
	}
}

func (b *Bot) respond(i *discordgo.Interaction, reply Reply) {
	data := &discordgo.InteractionResponseData{
		Content:    reply.Content,
		Components: components(reply.Buttons),
	}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := b.responder.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logrus.Errorf("Failed to respond to interaction (error : %v)", err)
	}
}

// deferred acknowledges the interaction right away and edits the response
// once the remote call returns, since Discord expects an answer within 3s.
// Visibility is fixed by the acknowledgement and cannot change on the edit.
func (b *Bot) deferred(i *discordgo.Interaction, ephemeral bool, handler func(ctx context.Context) Reply) {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}

	err := b.responder.InteractionRespond(i, resp)
	if err != nil {
		logrus.Errorf("Failed to acknowledge interaction (error : %v)", err)
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, utils.ComputeAPITimeout)
	defer cancel()

	reply := handler(ctx)
	rows := components(reply.Buttons)

	_, err = b.responder.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &reply.Content,
		Components: &rows,
	})
	if err != nil {
		logrus.Errorf("Failed to edit interaction response (error : %v)", err)
	}
}

func components(buttons []Button) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent

	for start := 0; start < len(buttons); start += maxButtonsPerRow {
		end := start + maxButtonsPerRow
		if end > len(buttons) {
			end = len(buttons)
		}

		row := discordgo.ActionsRow{}
		for _, b := range buttons[start:end] {
			row.Components = append(row.Components, discordgo.Button{
				Label:    b.Label,
				CustomID: b.CustomID,
				Style:    buttonStyle(b.Style),
			})
		}

		rows = append(rows, row)
	}

	return rows
}

func buttonStyle(style ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case StyleSecondary:
		return discordgo.SecondaryButton
	case StyleSuccess:
		return discordgo.SuccessButton
	case StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

func actorOf(i *discordgo.Interaction) Actor {
	if i.Member != nil && i.Member.User != nil {
		return Actor{UserID: i.Member.User.ID, RoleIDs: i.Member.Roles}
	}
	if i.User != nil {
		return Actor{UserID: i.User.ID}
	}

	return Actor{}
}

func optionInt(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, o := range options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return o.IntValue()
		}
	}

	return 0
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionString {
			return o.StringValue()
		}
	}

	return ""
}
