package core

import "github.com/amgomez49/SF-desuscripcion/internal/dom"

// watchPreloader removes the preloader once the animated icon has loaded.
func (c *Controller) watchPreloader() {
	if c.icon == nil || c.preloader == nil {
		return
	}
	notifier, ok := c.icon.(dom.LoadNotifier)
	if !ok {
		return
	}
	preloader := c.preloader
	notifier.OnceLoaded(func() {
		preloader.Remove()
		c.log.Debug("icon loaded, preloader removed")
	})
}
