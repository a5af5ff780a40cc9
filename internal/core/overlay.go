package core

import (
	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/utils"
)

// ShowMessage fills the overlay with msg and makes it visible. Without an
// overlay the message is dropped.
func (c *Controller) ShowMessage(msg models.OutcomeMessage) {
	if c.overlay == nil {
		return
	}

	c.overlay.ToggleClass(HiddenClass, false)

	if icon := c.overlay.Query(IconSlotSelector); icon != nil {
		icon.SetAttr("src", msg.Icon.AssetPath())
		icon.SetAttr("alt", msg.Title)
	}
	if title := c.overlay.Query(TitleSlotSelector); title != nil {
		title.SetText(msg.Title)
	}
	if desc := c.overlay.Query(DescSlotSelector); desc != nil {
		desc.SetInnerHTML(utils.SanitizeDescription(msg.Description))
	}

	c.installDismiss()
}

// HideMessage hides the overlay; hiding twice is harmless.
func (c *Controller) HideMessage() {
	if c.overlay == nil {
		return
	}
	c.overlay.ToggleClass(HiddenClass, true)
}

// MessageVisible reports whether the overlay is currently shown.
func (c *Controller) MessageVisible() bool {
	return c.overlay != nil && !c.overlay.HasClass(HiddenClass)
}

func (c *Controller) installDismiss() {
	for _, off := range c.dismiss {
		off()
	}
	c.dismiss = c.dismiss[:0]

	content := c.overlay.Query(ContentSelector)
	c.dismiss = append(c.dismiss, c.overlay.On(dom.EventClick, func(ev dom.Event) {
		if content != nil && content.Contains(ev.Target()) {
			return
		}
		c.HideMessage()
	}))

	if closer := c.overlay.Query(CloseSelector); closer != nil {
		c.dismiss = append(c.dismiss, closer.On(dom.EventClick, func(dom.Event) {
			c.HideMessage()
		}))
	}
}
