package config

// SearchConfig содержит настройки поискового движка.
// Ranked=false принудительно отключает полнотекстовый поиск
// независимо от результата пробы возможностей базы.
type SearchConfig struct {
	Ranked bool `yaml:"ranked" env:"NOTEDECK_SEARCH_RANKED" env-default:"true"`
}
