package model

// Service - услуга барбершопа
type Service struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`    // в реалах
	Duration int    `json:"duration"` // в минутах
}

// DefaultServices - прайс-лист по умолчанию
var DefaultServices = []Service{
	{ID: 1, Name: "Corte de Cabelo", Price: 35, Duration: 30},
	{ID: 2, Name: "Barba", Price: 25, Duration: 20},
	{ID: 3, Name: "Corte + Barba", Price: 55, Duration: 50},
	{ID: 4, Name: "Acabamento", Price: 20, Duration: 15},
}

// FindService ищет услугу по ID
func FindService(services []Service, id int) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// FindServiceByName ищет услугу по названию
func FindServiceByName(services []Service, name string) (Service, bool) {
	for _, s := range services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}
