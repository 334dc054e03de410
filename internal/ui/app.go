package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"github.com/disintegration/imaging"

	"LocalFlipbook/internal/export"
	"LocalFlipbook/internal/logging"
	"LocalFlipbook/internal/state"
)

// Board is the assembled editor: page widget, toolbar and their wiring to a
// book.
type Board struct {
	book    *state.Book
	page    *PageWidget
	toolbar *toolbar
	window  fyne.Window

	// OnChange is called after the board has repainted for a change.
	OnChange func(*state.Page, state.Change)
}

// NewBoard wires a book to a page widget and toolbar inside win.
func NewBoard(book *state.Book, win fyne.Window) *Board {
	b := &Board{
		book:    book,
		page:    NewPageWidget(book),
		toolbar: newToolbar(book),
		window:  win,
	}
	book.OnChange(b.changed)
	return b
}

func (b *Board) changed(p *state.Page, c state.Change) {
	if p != b.book.Current() {
		return
	}
	b.page.Repaint()
	if c != state.ChangeStroke {
		b.toolbar.refresh()
	}
	if b.OnChange != nil {
		b.OnChange(p, c)
	}
}

// Content returns the window content: toolbar on top, page below.
func (b *Board) Content() fyne.CanvasObject {
	return container.NewBorder(b.toolbar.build(b.exportPDF, b.importImage), nil, nil, nil,
		container.NewCenter(b.page))
}

// AddShortcuts binds undo, redo and page navigation keys.
func (b *Board) AddShortcuts(c fyne.Canvas) {
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { b.toolbar.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { b.toolbar.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift},
		func(fyne.Shortcut) { b.toolbar.redo() })
	c.SetOnTypedKey(func(e *fyne.KeyEvent) {
		switch e.Name {
		case fyne.KeyLeft:
			b.book.Prev()
		case fyne.KeyRight:
			b.book.Next()
		}
	})
}

func (b *Board) exportPDF() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, b.window)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logging.Logger().Warn("closing export failed", "error", err)
			}
		}()
		if err := export.WritePDF(writer, b.book.Frames()); err != nil {
			logging.Logger().Error("pdf export failed", "uri", writer.URI().String(), "error", err)
			dialog.ShowError(err, b.window)
			return
		}
		b.toolbar.status.SetText("Exported " + writer.URI().Name())
	}, b.window)
	d.SetFileName("flipbook.pdf")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	d.Show()
}

// importImage loads a picture into the current page and makes it the page's
// undo floor.
func (b *Board) importImage() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, b.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		img, err := imaging.Decode(reader)
		if err != nil {
			logging.Logger().Warn("image decode failed", "uri", reader.URI().String(), "error", err)
			dialog.ShowError(err, b.window)
			return
		}
		p := b.book.Current()
		if err := p.ImportImage(img, state.ImportCopy); err != nil {
			dialog.ShowError(err, b.window)
			return
		}
		p.CommitBaseline()
		b.toolbar.refresh()
	}, b.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}))
	d.Show()
}

// RunApp opens the editor window for book and blocks until it is closed.
func RunApp(book *state.Book, title string, onChange func(*state.Page, state.Change)) {
	myApp := app.New()
	myWindow := myApp.NewWindow(title)

	board := NewBoard(book, myWindow)
	board.OnChange = onChange
	myWindow.SetContent(board.Content())
	board.AddShortcuts(myWindow.Canvas())

	p := book.Current()
	myWindow.Resize(fyne.NewSize(float32(p.Width())+40, float32(p.Height())+120))
	myWindow.ShowAndRun()
}
