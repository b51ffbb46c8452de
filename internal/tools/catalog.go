package tools

var createEventSpec = ToolSpec{
	Name:        CreateEvent,
	Description: "Kullanıcının takvimine yeni bir etkinlik veya hatırlatıcı ekler. Kullanıcı bir plan, randevu ya da hatırlatma istediğinde kullan.",
	Parameters: Schema{
		Type: "object",
		Properties: map[string]Property{
			"title":       {Type: "string", Description: "Etkinliğin başlığı"},
			"date":        {Type: "string", Description: "Tarih, YYYY-MM-DD biçiminde"},
			"time":        {Type: "string", Description: "Saat, HH:MM biçiminde"},
			"description": {Type: "string", Description: "İsteğe bağlı açıklama"},
			"location":    {Type: "string", Description: "İsteğe bağlı konum"},
		},
		Required: []string{"title", "date", "time"},
	},
}

var webSearchSpec = ToolSpec{
	Name:        WebSearch,
	Description: "Güncel bilgi gerektiren sorular için internette arama yapar: haberler, hava durumu, maç sonuçları, fiyatlar.",
	Parameters: Schema{
		Type: "object",
		Properties: map[string]Property{
			"query": {Type: "string", Description: "Arama sorgusu"},
			"count": {Type: "integer", Description: "Döndürülecek sonuç sayısı (varsayılan 5)"},
		},
		Required: []string{"query"},
	},
}
