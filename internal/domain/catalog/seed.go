package catalog

import "github.com/amit001112/HospitalBilling/pkg/money"

func seedItem(name, category, price string) CreateInput {
	p := money.MustParse(price)
	return CreateInput{Name: name, Category: &category, Price: &p}
}

// DefaultItems is the starter price list loaded by the seed command.
func DefaultItems() []CreateInput {
	return []CreateInput{
		seedItem("General Consultation", "Consultation", "500.00"),
		seedItem("Specialist Consultation", "Consultation", "1000.00"),
		seedItem("Complete Blood Count", "Laboratory", "350.00"),
		seedItem("Blood Sugar (Fasting)", "Laboratory", "120.00"),
		seedItem("Chest X-Ray", "Radiology", "600.00"),
		seedItem("ECG", "Cardiology", "300.00"),
		seedItem("General Ward (per day)", "Room", "1500.00"),
		seedItem("Dressing", "Procedure", "200.00"),
	}
}
