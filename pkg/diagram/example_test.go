package diagram_test

import (
	"fmt"

	"github.com/pkoster/drawcell/pkg/diagram"
)

func ExampleDocument() {
	doc := diagram.New("Checkout Flow")

	cart, err := doc.AddShape(diagram.ShapeParams{Label: "Cart", X: 40, Y: 40})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	pay, err := doc.AddShape(diagram.ShapeParams{Label: "Payment", X: 240, Y: 40, Kind: diagram.ShapeHexagon})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	conn, err := doc.AddConnection(diagram.ConnectionParams{
		SourceID: cart,
		TargetID: pay,
		Label:    "checkout",
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(cart, pay, conn)
	fmt.Println("cells:", doc.Len())
	// Output:
	// shape_1 shape_2 conn_3
	// cells: 3
}

func ExampleDocument_Update() {
	doc := diagram.New("")
	id, _ := doc.AddShape(diagram.ShapeParams{Label: "Box"})

	label := "Renamed"
	width := 200.0
	cell, err := doc.Update(id, diagram.CellUpdate{Label: &label, Width: &width})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(cell.Label, cell.Width)
	// Output:
	// Renamed 200
}
