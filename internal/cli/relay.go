package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/khobor-topics/pkg/publishers"
)

// relay hands evt to every enabled publisher when --publish is set.
func (a *app) relay(cmd *cobra.Command, evt publishers.Event) error {
	if !a.publish {
		return nil
	}
	if a.cfg.Publishers.File == "" {
		return errors.New("--publish requires publishers.file to be configured")
	}

	reg, err := publishers.LoadRegistry(a.cfg.Publishers.File)
	if err != nil {
		return fmt.Errorf("load publishers: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		a.log.WarnObj("no enabled publishers", "publish_skipped", map[string]any{
			"file": a.cfg.Publishers.File,
		})
		return nil
	}

	pubs, err := publishers.BuildAll(cmd.Context(), publishers.DefaultRegistry(), enabled, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := publishers.CloseAll(pubs); cerr != nil {
			a.log.WarnObj("closing publishers failed", "publisher_close_error", map[string]any{
				"error": cerr.Error(),
			})
		}
	}()

	return publishers.PublishAll(cmd.Context(), pubs, evt, a.log)
}
