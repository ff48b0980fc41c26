package fixtures

const (
	PhoneMaria   = "5511999887766"
	PhoneJoao    = "5521988776655"
	PhoneUnknown = "5599000000000"
)

const (
	FuelText     = "Paguei R$ 85,50 de combustível no posto Shell"
	GreetingText = "Bom dia"
	HotelCaption = "Hotel Central diária R$ 1.234,56"
)

// ReceiptBytes stands in for the payload of a photographed receipt.
const ReceiptBytes = "\xff\xd8\xff\xe0 fake jpeg receipt payload \xff\xd9"
