package handlers

import "service-dispatch/internal/domain"

func assignResultToResponse(res domain.AssignResult) assignResponse {
	return assignResponse{
		OrderID:        res.OrderID,
		CourierID:      res.CourierID,
		DeliveryFee:    res.DeliveryFee,
		CourierEarning: res.CourierEarning,
		AssignedAt:     res.AssignedAt,
	}
}

func rejectResultToResponse(res domain.RejectResult) rejectResponse {
	out := rejectResponse{
		OrderID:    res.OrderID,
		Status:     string(res.Status),
		Reassigned: res.Reassigned,
	}
	if res.Reassigned {
		id := res.NewCourierID
		out.NewCourierID = &id
	}
	return out
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:             o.ID,
		Status:         string(o.Status),
		ServiceArea:    o.ServiceArea,
		Total:          o.Total,
		CourierID:      o.CourierID,
		DeliveryFee:    o.DeliveryFee,
		CourierEarning: o.CourierEarning,
		PlacedAt:       o.PlacedAt,
		AssignedAt:     o.AssignedAt,
		PickedUpAt:     o.PickedUpAt,
		DeliveredAt:    o.DeliveredAt,
		CancelledAt:    o.CancelledAt,
	}
}

func ordersToDTO(list []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, orderToDTO(o))
	}
	return out
}

func assignmentToDTO(a domain.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:              a.ID,
		OrderID:         a.OrderID,
		CourierID:       a.CourierID,
		Status:          string(a.Status),
		AssignedAt:      a.AssignedAt,
		AcceptedAt:      a.AcceptedAt,
		RejectedAt:      a.RejectedAt,
		PickedUpAt:      a.PickedUpAt,
		DeliveredAt:     a.DeliveredAt,
		CancelledAt:     a.CancelledAt,
		RejectionReason: a.RejectionReason,
		DeliveryMinutes: a.DeliveryMinutes,
	}
}

func assignmentsToDTO(list []domain.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(list))
	for _, a := range list {
		out = append(out, assignmentToDTO(a))
	}
	return out
}

func statsToDTO(s domain.CourierStats) statsDTO {
	return statsDTO{
		CourierID:              s.CourierID,
		ActiveOrders:           s.ActiveOrders,
		CompletedDeliveries:    s.CompletedDeliveries,
		TotalEarnings:          s.TotalEarnings,
		TodayDeliveries:        s.TodayDeliveries,
		TodayEarnings:          s.TodayEarnings,
		WeekDeliveries:         s.WeekDeliveries,
		WeekEarnings:           s.WeekEarnings,
		AvgEarningsPerDelivery: s.AvgEarningsPerDelivery,
	}
}
