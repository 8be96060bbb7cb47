package seed

import (
	"github.com/shopspring/decimal"

	"github.com/drstein77/storefront/internal/models"
)

func physical(name, description, price, category string) models.Product {
	return models.Product{
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Variant:     models.Physical,
	}
}

func digital(name, description, price, category string) models.Product {
	p := physical(name, description, price, category)
	p.Variant = models.Digital
	return p
}

// Default returns the store's built-in catalog.
func Default() []models.Product {
	return []models.Product{
		physical("Libro de aventuras", "Don quijote de la mancha.", "150.850", "Libros"),
		digital("Curso en línea", "Curso de programación en Python.", "220.000", "Aprendizaje"),
		physical("Laptop", "Asus TUF GAMING F15.", "4000.215", "Tecnología"),
		physical("Comida enlatada", "Lata de atún Vancamps.", "21.000", "Comida"),
		physical("Vino", "Bebida sumamente alcoholizada para +18.", "133.000", "Bebida"),
		physical("Iphone 15 pro max", "Celular Iphone 15 pro max 512GB.", "6780.000", "Tecnología"),
		physical("Jabón de baño", "Jabón líquido con aroma a vainilla.", "20.000", "Aseo"),
		digital("Curso de ingles", "Aprende ingles b2 con nosotros x 12 meses.", "4500.000", "Aprendizaje"),
		digital("Tarjeta de regalo", "Tarjeta de regalo membresia 1 mes de Netflix - 2 pantallas.", "38.000", "Tecnología"),
		physical("Libro de terror", "La casa de las sombras.", "65.000", "Libros"),
		physical("Crema dental", "Crema de dientes con triple acción.", "6.500", "Aseo"),
		physical("Pestañina", "Pestañina a prueba de agua 3 días de duración.", "22.000", "Belleza"),
		physical("Labial", "Labial rojo mate.", "8.500", "Belleza"),
		physical("Pasta", "Pasta en fideos 500g.", "4.110", "Comida"),
		physical("Coca-cola", "Gaseosa COCA COLA Sabor Original x 2 Unds 6000 ml.", "16.500", "Bebida"),
		physical("Cerveza", "Cerveza Lata Sixpack AGUILA 1980 ml.", "18.000", "Bebida"),
		physical("Iluminador", "Ilumina y resalta tu belleza con el iluminador.", "35.000", "Belleza"),
		physical("Acetaminofén", "Alivia el dolor leve o moderado de las cefaleas, dolores musculares y cólicos x 500mg.", "11.000", "Medicamento"),
		physical("Ibuprofeno", "Para aliviar el dolor, la sensibilidad, la inflamación y la rigidez.", "15.000", "Medicamento"),
	}
}
