package devserver

// restaurants is the canned Cape Town dataset served by the dev backend.
// Records are deliberately shaped like raw scraper output, nested
// additionalInfo groups and all, so the client normalizer sees realistic
// input.
var restaurants = []map[string]any{
	{
		"id":           "1",
		"title":        "Harbour House",
		"categoryName": "Seafood restaurant",
		"totalScore":   4.6,
		"reviewsCount": 2841,
		"price":        "R300-R600",
		"neighborhood": "V&A Waterfront",
		"reviewsTags":  []any{"ocean view", "fresh fish", "sunset"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Great view": true}, map[string]any{"Romantic": true}},
			"Offerings":       []any{map[string]any{"Seafood": true}, map[string]any{"Wine list": true}},
			"Service options": []any{map[string]any{"Outdoor seating": true}, map[string]any{"Reservations": true}},
		},
		"reviews": []any{
			map[string]any{"name": "Thandi M", "text": "Sunset over the harbour with the best kingklip in town.", "stars": 5.0, "publishedAtDate": "2025-11-02"},
			map[string]any{"name": "Pieter V", "text": "Pricey but worth every rand for an anniversary.", "stars": 4.0, "publishedAtDate": "2025-09-18"},
		},
	},
	{
		"id":           "2",
		"title":        "The Codfather",
		"categoryName": "Seafood restaurant",
		"totalScore":   4.5,
		"reviewsCount": 1932,
		"price":        "R300-R600",
		"neighborhood": "Camps Bay",
		"reviewsTags":  []any{"sushi", "pick your fish", "beachfront"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Fresh catch": true}},
			"Offerings":       []any{map[string]any{"Seafood": true}, map[string]any{"Sushi": true}},
			"Service options": []any{map[string]any{"Reservations": true}},
		},
	},
	{
		"id":           "3",
		"title":        "La Colombe",
		"categoryName": "Fine dining restaurant",
		"totalScore":   4.8,
		"reviewsCount": 1204,
		"price":        "R600+",
		"neighborhood": "Constantia",
		"reviewsTags":  []any{"tasting menu", "wine pairing", "special occasion"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Romantic": true}, map[string]any{"Great wine list": true}},
			"Offerings":       []any{map[string]any{"Tasting menu": true}, map[string]any{"Vegetarian options": true}},
			"Service options": []any{map[string]any{"Reservations": true}},
		},
	},
	{
		"id":           "4",
		"title":        "Mzansi",
		"categoryName": "African restaurant",
		"totalScore":   4.7,
		"reviewsCount": 856,
		"price":        "R150-R300",
		"neighborhood": "Langa",
		"reviewsTags":  []any{"township dining", "live marimba", "family style"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Live music": true}, map[string]any{"Family friendly": true}},
			"Offerings":       []any{map[string]any{"Traditional food": true}, map[string]any{"Buffet": true}},
			"Service options": []any{map[string]any{"Group bookings": true}},
		},
	},
	{
		"id":           "5",
		"title":        "Panama Jacks",
		"categoryName": "Seafood restaurant",
		"totalScore":   4.3,
		"reviewsCount": 1587,
		"price":        "R300-R600",
		"neighborhood": "Table Bay Harbour",
		"reviewsTags":  []any{"crayfish", "working harbour", "no frills"},
		"additionalInfo": map[string]any{
			"Offerings":       []any{map[string]any{"Seafood": true}, map[string]any{"Crayfish": true}},
			"Service options": []any{map[string]any{"Family friendly": true}},
		},
	},
	{
		"id":           "6",
		"title":        "Spur Steak Ranch",
		"categoryName": "Steak house",
		"totalScore":   4.0,
		"reviewsCount": 3210,
		"price":        "Under R150",
		"neighborhood": "Sea Point",
		"reviewsTags":  []any{"kids play area", "burgers", "ribs"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Family friendly": true}},
			"Offerings":       []any{map[string]any{"Burgers": true}, map[string]any{"Ribs": true}},
			"Service options": []any{map[string]any{"Takeaway": true}, map[string]any{"Kids menu": true}},
		},
	},
	{
		"id":           "7",
		"title":        "Ocean Basket",
		"categoryName": "Seafood restaurant",
		"totalScore":   4.1,
		"reviewsCount": 2764,
		"price":        "Under R150",
		"neighborhood": "Kloof Street",
		"reviewsTags":  []any{"calamari", "value", "casual"},
		"additionalInfo": map[string]any{
			"Offerings":       []any{map[string]any{"Seafood": true}, map[string]any{"Sushi": true}},
			"Service options": []any{map[string]any{"Takeaway": true}, map[string]any{"Family friendly": true}},
		},
	},
	{
		"id":           "8",
		"title":        "Truth Coffee Roasting",
		"categoryName": "Coffee shop",
		"totalScore":   4.4,
		"reviewsCount": 4102,
		"price":        "Under R150",
		"neighborhood": "CBD",
		"reviewsTags":  []any{"steampunk", "flat white", "breakfast"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Great coffee": true}},
			"Offerings":       []any{map[string]any{"Breakfast": true}, map[string]any{"Coffee": true}},
			"Service options": []any{map[string]any{"Takeaway": true}},
		},
	},
	{
		"id":           "9",
		"title":        "Gold Restaurant",
		"categoryName": "African restaurant",
		"totalScore":   4.6,
		"reviewsCount": 1478,
		"price":        "R300-R600",
		"neighborhood": "Green Point",
		"reviewsTags":  []any{"14 dish menu", "djembe drumming", "pan-african"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Live entertainment": true}},
			"Offerings":       []any{map[string]any{"Set menu": true}, map[string]any{"Vegetarian options": true}},
			"Service options": []any{map[string]any{"Group bookings": true}, map[string]any{"Reservations": true}},
		},
	},
	{
		"id":           "10",
		"title":        "Eastern Food Bazaar",
		"categoryName": "Indian restaurant",
		"totalScore":   4.2,
		"reviewsCount": 5320,
		"price":        "Under R150",
		"neighborhood": "CBD",
		"reviewsTags":  []any{"food court", "huge portions", "cheap"},
		"additionalInfo": map[string]any{
			"Offerings":       []any{map[string]any{"Curry": true}, map[string]any{"Halal": true}},
			"Service options": []any{map[string]any{"Takeaway": true}, map[string]any{"Quick service": true}},
		},
	},
	{
		"id":           "11",
		"title":        "The Test Kitchen",
		"categoryName": "Fine dining restaurant",
		"totalScore":   4.7,
		"reviewsCount": 987,
		"price":        "R600+",
		"neighborhood": "Woodstock",
		"reviewsTags":  []any{"tasting menu", "inventive", "book ahead"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Award winning": true}},
			"Offerings":       []any{map[string]any{"Tasting menu": true}},
			"Service options": []any{map[string]any{"Reservations": true}},
		},
	},
	{
		"id":           "12",
		"title":        "Kloof Street House",
		"categoryName": "Restaurant",
		"totalScore":   4.5,
		"reviewsCount": 2193,
		"price":        "R300-R600",
		"neighborhood": "Gardens",
		"reviewsTags":  []any{"victorian house", "garden seating", "cocktails"},
		"additionalInfo": map[string]any{
			"Highlights":      []any{map[string]any{"Romantic": true}, map[string]any{"Great cocktails": true}},
			"Offerings":       []any{map[string]any{"Dinner": true}, map[string]any{"Cocktails": true}},
			"Service options": []any{map[string]any{"Outdoor seating": true}, map[string]any{"Reservations": true}},
		},
	},
}

// restaurantByID indexes the canned dataset.
func restaurantByID(id string) (map[string]any, bool) {
	for _, r := range restaurants {
		if r["id"] == id {
			return r, true
		}
	}
	return nil, false
}
