package main

import (
	"context"
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"screenpaint/pkg/render"
	"screenpaint/pkg/scene"
)

func renderScene(ctx context.Context, path string) (*image.RGBA, error) {
	doc, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	root, opts, err := doc.Build()
	if err != nil {
		return nil, err
	}
	return render.Render(ctx, root, opts)
}

func main() {
	a := app.New()
	w := a.NewWindow("screenpaint")
	w.Resize(fyne.NewSize(1024, 768))

	// Blank initial render target
	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a scene file and press Enter")

	pathEntry := widget.NewEntry()
	pathEntry.SetPlaceHolder("testdata/scenes/borders.yaml")

	load := func(path string) {
		if path == "" {
			return
		}
		status.SetText("Rendering " + path + "...")
		go func() {
			img, err := renderScene(context.Background(), path)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = img
				canvasImg.Refresh()
				status.SetText(fmt.Sprintf("%s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy()))
				w.SetTitle("screenpaint - " + path)
			})
		}()
	}
	pathEntry.OnSubmitted = load
	reload := widget.NewButton("Re-render", func() { load(pathEntry.Text) })

	topBar := container.NewBorder(nil, nil, nil, reload, pathEntry)
	content := container.NewBorder(topBar, status, nil, nil, container.NewScroll(canvasImg))
	w.SetContent(content)

	if len(os.Args) > 1 {
		pathEntry.SetText(os.Args[1])
		load(os.Args[1])
	}

	// Keep focus on the entry to prevent Tab freeze with no other focusable widgets
	w.Canvas().Focus(pathEntry)

	w.ShowAndRun()
}
