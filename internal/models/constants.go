package models

const (
	CuisineItalian  = "Italian"
	CuisineMexican  = "Mexican"
	CuisineAsian    = "Asian"
	CuisineAmerican = "American"
	CuisineIndian   = "Indian"

	CategoryAppetizers = "Appetizers"
	CategoryEntrees    = "Entrees"
	CategoryDesserts   = "Desserts"
	CategoryBeverages  = "Beverages"

	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverS3       = "s3"

	PublisherNone     = "none"
	PublisherKafka    = "kafka"
	PublisherRabbitMQ = "rabbitmq"
)

var (
	Cuisines   = []string{CuisineItalian, CuisineMexican, CuisineAsian, CuisineAmerican, CuisineIndian}
	Categories = []string{CategoryAppetizers, CategoryEntrees, CategoryDesserts, CategoryBeverages}
)
