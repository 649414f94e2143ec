// loreline-gui is the desktop timeline browser: a filterable vertical
// timeline of catalog events with a detail overlay.
//
// The event set is fetched once at startup; searching and era toggles
// filter the in-memory copy. A failed fetch leaves an interactive,
// empty timeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"loreline/internal/cache"
	"loreline/internal/config"
	"loreline/internal/timeline"
)

var theme *material.Theme

type UI struct {
	window *app.Window
	events *cache.Cache

	loadErr string

	searchEditor widget.Editor
	eraChecks    map[timeline.Era]*widget.Bool

	timelineList widget.List
	rowClicks    []widget.Clickable

	// Detail overlay state; nil means the overlay is closed.
	detail        *timeline.Event
	closeDetail   widget.Clickable
	relatedClicks []widget.Clickable
}

func main() {
	configPath := flag.String("config", "", "path to config file (TOML, YAML, or JSON)")
	flag.Parse()

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0x14, G: 0x12, B: 0x1E, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0xE8, G: 0xE4, B: 0xD8, A: 0xFF}
	theme.Palette.ContrastBg = color.NRGBA{R: 0x8A, G: 0x6D, B: 0x2F, A: 0xFF}
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	ui := &UI{
		events:    cache.New(cfg.Client.APIBase),
		eraChecks: make(map[timeline.Era]*widget.Bool),
	}
	ui.searchEditor.SingleLine = true
	ui.timelineList.Axis = layout.Vertical
	for _, era := range timeline.Eras() {
		ui.eraChecks[era] = &widget.Bool{Value: true}
	}

	go func() {
		w := new(app.Window)
		w.Option(app.Title("Loreline — Timeline of Arda"))
		w.Option(app.Size(unit.Dp(900), unit.Dp(720)))
		ui.window = w

		// One fetch per session; failure degrades to an empty list.
		go func() {
			if err := ui.events.Load(context.Background()); err != nil {
				log.Printf("load events: %v", err)
				ui.loadErr = "Could not load events — is the server running?"
			}
			w.Invalidate()
		}()

		if err := ui.run(w); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func (ui *UI) run(w *app.Window) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			ui.handleInput(gtx)
			ui.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (ui *UI) handleInput(gtx layout.Context) {
	ui.events.SetSearchTerm(ui.searchEditor.Text())
	for era, check := range ui.eraChecks {
		if check.Update(gtx) {
			ui.events.SetEra(era, check.Value)
		}
	}

	filtered := ui.events.Events()
	for i := range ui.rowClicks {
		if i < len(filtered) && ui.rowClicks[i].Clicked(gtx) {
			e := filtered[i]
			ui.openDetail(e)
		}
	}

	if ui.detail != nil {
		if ui.closeDetail.Clicked(gtx) {
			ui.detail = nil
		} else {
			for i := range ui.relatedClicks {
				if i < len(ui.detail.RelatedEventIDs) && ui.relatedClicks[i].Clicked(gtx) {
					// Dangling reference: leave the detail view as-is.
					if related, ok := ui.events.Resolve(ui.detail.RelatedEventIDs[i]); ok {
						ui.openDetail(related)
					}
				}
			}
		}
	}
}

func (ui *UI) openDetail(e timeline.Event) {
	ui.detail = &e
	ui.relatedClicks = make([]widget.Clickable, len(e.RelatedEventIDs))
}

func (ui *UI) layout(gtx layout.Context) layout.Dimensions {
	if ui.detail != nil {
		return ui.layoutDetail(gtx)
	}
	return ui.layoutTimeline(gtx)
}

func (ui *UI) layoutTimeline(gtx layout.Context) layout.Dimensions {
	filtered := ui.events.Events()
	for len(ui.rowClicks) < len(filtered) {
		ui.rowClicks = append(ui.rowClicks, widget.Clickable{})
	}

	return layout.Inset{Top: unit.Dp(16), Right: unit.Dp(16), Bottom: unit.Dp(16), Left: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.H5(theme, "Timeline of Arda").Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				ed := material.Editor(theme, &ui.searchEditor, "Search events, characters, places...")
				return ed.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(ui.layoutEraFilters),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				if ui.loadErr != "" {
					label := material.Body2(theme, ui.loadErr)
					label.Color = color.NRGBA{R: 0xD0, G: 0x50, B: 0x50, A: 0xFF}
					return label.Layout(gtx)
				}
				return material.Caption(theme, fmt.Sprintf("%d of %d events", len(filtered), ui.events.Len())).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return material.List(theme, &ui.timelineList).Layout(gtx, len(filtered), func(gtx layout.Context, i int) layout.Dimensions {
					return ui.layoutEventRow(gtx, &ui.rowClicks[i], filtered[i])
				})
			}),
		)
	})
}

func (ui *UI) layoutEraFilters(gtx layout.Context) layout.Dimensions {
	children := make([]layout.FlexChild, 0, 5)
	for _, era := range timeline.Eras() {
		era := era
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Right: unit.Dp(12)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return material.CheckBox(theme, ui.eraChecks[era], string(era)).Layout(gtx)
			})
		}))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}

func (ui *UI) layoutEventRow(gtx layout.Context, click *widget.Clickable, e timeline.Event) layout.Dimensions {
	return click.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					label := material.Body1(theme, e.Title)
					label.Font.Weight = font.Bold
					return label.Layout(gtx)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					label := material.Caption(theme, fmt.Sprintf("%s — %s — %s", e.Era, yearLabel(e.Year), e.Location))
					label.Color = color.NRGBA{R: 0xA0, G: 0x98, B: 0x88, A: 0xFF}
					return label.Layout(gtx)
				}),
			)
		})
	})
}

func (ui *UI) layoutDetail(gtx layout.Context) layout.Dimensions {
	e := *ui.detail
	return layout.Inset{Top: unit.Dp(24), Right: unit.Dp(24), Bottom: unit.Dp(24), Left: unit.Dp(24)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		children := []layout.FlexChild{
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.H5(theme, e.Title).Layout(gtx)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Body2(theme, fmt.Sprintf("%s — %s", e.Era, yearLabel(e.Year))).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(detailField("Location", e.Location)),
			layout.Rigid(detailField("Characters", strings.Join(e.Characters, ", "))),
			layout.Rigid(detailField("Source", strings.Join(e.Source.Values, "; "))),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Body1(theme, e.Summary).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
		}

		if len(e.RelatedEventIDs) > 0 {
			children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return material.Body2(theme, "Related events").Layout(gtx)
			}))
			for i, id := range e.RelatedEventIDs {
				i, id := i, id
				children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					title := id
					if related, ok := ui.events.Resolve(id); ok {
						title = related.Title
					}
					return layout.Inset{Top: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						return material.Button(theme, &ui.relatedClicks[i], title).Layout(gtx)
					})
				}))
			}
			children = append(children, layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout))
		}

		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(theme, &ui.closeDetail, "Back to timeline")
			return btn.Layout(gtx)
		}))

		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
	})
}

func detailField(name, value string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		if value == "" {
			return layout.Dimensions{}
		}
		label := material.Body2(theme, name+": "+value)
		label.Color = color.NRGBA{R: 0xB8, G: 0xB0, B: 0xA0, A: 0xFF}
		return label.Layout(gtx)
	}
}

func yearLabel(year *int) string {
	if year == nil {
		return "year unknown"
	}
	return fmt.Sprintf("year %d", *year)
}
