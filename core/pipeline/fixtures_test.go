package pipeline

import "github.com/siherrmann/featuregraph/model"

// scenarioRegistry is one feature view fv1 sourced from ds1 with entity e1,
// consumed by feature service fs1.
func scenarioRegistry() *model.Registry {
	return &model.Registry{
		Project: "driver_ranking",
		Objects: &model.Objects{
			DataSources: []*model.DataSource{
				{Spec: &model.DataSourceSpec{Name: "ds1", Type: "BATCH_FILE", Description: "Driver stats parquet"}},
			},
			Entities: []*model.Entity{
				{Spec: &model.EntitySpec{Name: "e1", Description: "Driver", JoinKeys: []string{"driver_id"}}},
			},
			FeatureViews: []*model.FeatureView{
				{Spec: &model.FeatureViewSpec{
					Name:        "fv1",
					Description: "Hourly driver stats",
					Entities:    []string{"e1"},
					Features: []*model.Feature{
						{Name: "conv_rate", ValueType: "FLOAT"},
						{Name: "acc_rate", ValueType: "FLOAT"},
					},
					BatchSource: &model.DataSourceRef{Name: "ds1"},
				}},
			},
			FeatureServices: []*model.FeatureService{
				{Spec: &model.FeatureServiceSpec{
					Name: "fs1",
					Features: []*model.FeatureViewProjection{
						{FeatureViewName: "fv1", FeatureColumns: []*model.Feature{{Name: "conv_rate"}, {Name: "acc_rate"}}},
					},
				}},
			},
		},
	}
}

func ref(t model.ObjectType, name string) model.ObjectRef {
	return model.ObjectRef{Type: t, Name: name}
}
