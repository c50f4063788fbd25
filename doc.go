/*
Package impasto is a layered raster painting engine. It keeps a stack of
equally sized drawable layers, renders brush strokes onto the active one,
records per layer undo/redo checkpoints, flattens the visible layers into a
single image and lets an inserted image be dragged around before it is
committed as a layer of its own.

The package provides a command line interface, which replays a recorded
session and exports the composite, or opens an interactive window.
To check the supported commands type:

	$ impasto --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"image"
		"os"

		"github.com/esimov/impasto"
	)

	func main() {
		e, err := impasto.NewEditor(400, 300)
		if err != nil {
			fmt.Printf("Error creating the editor: %s", err.Error())
			return
		}
		e.Dispatch(impasto.PointerEvent{Kind: impasto.PointerDown, Pos: image.Pt(10, 10)})
		e.Dispatch(impasto.PointerEvent{Kind: impasto.PointerMove, Pos: image.Pt(200, 120)})
		e.Dispatch(impasto.PointerEvent{Kind: impasto.PointerUp, Pos: image.Pt(200, 120)})

		if _, err := e.Save(os.Stdout, impasto.PNG); err != nil {
			fmt.Printf("Error saving the drawing: %s", err.Error())
		}
	}
*/
package impasto
